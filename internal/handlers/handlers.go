package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/edupay-dz/edupay/docs"
	entitlementhandlers "github.com/edupay-dz/edupay/internal/handlers/entitlement"
	intakehandlers "github.com/edupay-dz/edupay/internal/handlers/intake"
	paymenthandlers "github.com/edupay-dz/edupay/internal/handlers/payments"
	subscriptionhandlers "github.com/edupay-dz/edupay/internal/handlers/subscriptions"
	"github.com/edupay-dz/edupay/internal/service"
	"github.com/edupay-dz/edupay/pkg/auth"
)

type IntakeHandler interface {
	Receive(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	RecordCash(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	GetPayments(w http.ResponseWriter, r *http.Request)
}

type SubscriptionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Extend(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Sweep(w http.ResponseWriter, r *http.Request)
}

type EntitlementHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	IntakeHandler       IntakeHandler
	PaymentHandler      PaymentHandler
	SubscriptionHandler SubscriptionHandler
	EntitlementHandler  EntitlementHandler
}

func New(s *service.Services, queue intakehandlers.Queue) *Handlers {
	return &Handlers{
		IntakeHandler:       intakehandlers.New(queue),
		PaymentHandler:      paymenthandlers.New(s.PaymentService),
		SubscriptionHandler: subscriptionhandlers.New(s.SubscriptionService),
		EntitlementHandler:  entitlementhandlers.New(s.EntitlementService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/payments/webhook/{provider}", h.IntakeHandler.Receive)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Post("/subscriptions", h.SubscriptionHandler.Create)
			r.Get("/entitlement", h.EntitlementHandler.Resolve)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireStaff)
				r.Route("/payments", func(r chi.Router) {
					r.Get("/", h.PaymentHandler.GetPayments)
					r.Post("/cash", h.PaymentHandler.RecordCash)
					r.Post("/{id}/approve", h.PaymentHandler.Approve)
					r.Post("/{id}/reject", h.PaymentHandler.Reject)
					r.Post("/{id}/cancel", h.PaymentHandler.Cancel)
				})
				r.Post("/subscriptions/{id}/extend", h.SubscriptionHandler.Extend)
				r.Post("/subscriptions/{id}/cancel", h.SubscriptionHandler.Cancel)
				r.Post("/admin/sweep", h.SubscriptionHandler.Sweep)
			})
		})
	})

	return r
}
