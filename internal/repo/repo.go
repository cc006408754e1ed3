package repo

import (
	"github.com/edupay-dz/edupay/internal/pg"
	balancerepo "github.com/edupay-dz/edupay/internal/repo/balance-repo"
	paymentrepo "github.com/edupay-dz/edupay/internal/repo/payment-repo"
	subscriptionrepo "github.com/edupay-dz/edupay/internal/repo/subscription-repo"
	teacherrepo "github.com/edupay-dz/edupay/internal/repo/teacher-repo"
)

type Repositories struct {
	PaymentRepo      *paymentrepo.Repository
	SubscriptionRepo *subscriptionrepo.Repository
	BalanceRepo      *balancerepo.Repository
	TeacherRepo      *teacherrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		PaymentRepo:      paymentrepo.New(conn),
		SubscriptionRepo: subscriptionrepo.New(conn),
		BalanceRepo:      balancerepo.New(conn),
		TeacherRepo:      teacherrepo.New(conn),
	}
}
