package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	_ "github.com/edupay-dz/edupay/docs"
	"github.com/edupay-dz/edupay/internal/handlers/entitlement"
	"github.com/edupay-dz/edupay/internal/handlers/intake"
	"github.com/edupay-dz/edupay/internal/handlers/payments"
	"github.com/edupay-dz/edupay/internal/handlers/subscriptions"
	"github.com/edupay-dz/edupay/internal/service"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		PaymentService:      payments.NewMockService(ctrl),
		SubscriptionService: subscriptions.NewMockService(ctrl),
		EntitlementService:  entitlement.NewMockService(ctrl),
	}
	queue := intake.NewMockQueue(ctrl)

	h := New(services, queue)
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.IntakeHandler)
	assert.NotNil(t, h.PaymentHandler)
	assert.NotNil(t, h.SubscriptionHandler)
	assert.NotNil(t, h.EntitlementHandler)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockIntakeHandler := NewMockIntakeHandler(ctrl)
	mockPaymentHandler := NewMockPaymentHandler(ctrl)
	mockSubscriptionHandler := NewMockSubscriptionHandler(ctrl)
	mockEntitlementHandler := NewMockEntitlementHandler(ctrl)

	mockIntakeHandler.EXPECT().Receive(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().RecordCash(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Approve(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Reject(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Cancel(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().GetPayments(gomock.Any(), gomock.Any()).AnyTimes()
	mockSubscriptionHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	mockSubscriptionHandler.EXPECT().Extend(gomock.Any(), gomock.Any()).AnyTimes()
	mockSubscriptionHandler.EXPECT().Cancel(gomock.Any(), gomock.Any()).AnyTimes()
	mockSubscriptionHandler.EXPECT().Sweep(gomock.Any(), gomock.Any()).AnyTimes()
	mockEntitlementHandler.EXPECT().Resolve(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		IntakeHandler:       mockIntakeHandler,
		PaymentHandler:      mockPaymentHandler,
		SubscriptionHandler: mockSubscriptionHandler,
		EntitlementHandler:  mockEntitlementHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/payments/webhook/chargily", http.StatusOK},
		{"POST", "/api/subscriptions", http.StatusUnauthorized},
		{"GET", "/api/entitlement", http.StatusUnauthorized},
		{"GET", "/api/payments/", http.StatusUnauthorized},
		{"POST", "/api/payments/cash", http.StatusUnauthorized},
		{"POST", "/api/payments/1/approve", http.StatusUnauthorized},
		{"POST", "/api/payments/1/reject", http.StatusUnauthorized},
		{"POST", "/api/payments/1/cancel", http.StatusUnauthorized},
		{"POST", "/api/subscriptions/1/extend", http.StatusUnauthorized},
		{"POST", "/api/subscriptions/1/cancel", http.StatusUnauthorized},
		{"POST", "/api/admin/sweep", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
