package service

import (
	"github.com/edupay-dz/edupay/internal/handlers/entitlement"
	"github.com/edupay-dz/edupay/internal/handlers/payments"
	"github.com/edupay-dz/edupay/internal/handlers/subscriptions"
	"github.com/edupay-dz/edupay/internal/sweep"
	"github.com/edupay-dz/edupay/internal/webhook"

	"github.com/edupay-dz/edupay/internal/pg"
	"github.com/edupay-dz/edupay/internal/repo"
	entitlementservice "github.com/edupay-dz/edupay/internal/service/entitlementservice"
	paymentservice "github.com/edupay-dz/edupay/internal/service/paymentservice"
	subscriptionservice "github.com/edupay-dz/edupay/internal/service/subscriptionservice"
)

type Services struct {
	PaymentService      payments.Service
	SubscriptionService subscriptions.Service
	EntitlementService  entitlement.Service

	// The same payment service doubles as the webhook processor, and the
	// subscription service as the sweep's expirer.
	Processor webhook.Processor
	Expirer   sweep.Expirer
}

func New(repo *repo.Repositories, txManager pg.TXManager) *Services {
	subscriptionService := subscriptionservice.New(repo.SubscriptionRepo, repo.PaymentRepo, repo.BalanceRepo, repo.TeacherRepo, txManager)
	paymentService := paymentservice.New(repo.PaymentRepo, repo.BalanceRepo, subscriptionService, txManager)
	entitlementService := entitlementservice.New(repo.SubscriptionRepo)

	return &Services{
		PaymentService:      paymentService,
		SubscriptionService: subscriptionService,
		EntitlementService:  entitlementService,
		Processor:           paymentService,
		Expirer:             subscriptionService,
	}
}
