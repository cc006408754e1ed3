package subscriptions

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/dto"
	"github.com/edupay-dz/edupay/internal/service/subscriptionservice"
	"github.com/edupay-dz/edupay/pkg/auth"
)

func NewMock(t *testing.T) (*SubscriptionHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func authedRequest(method, target, body, subscriptionID string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), auth.UserIDKey, 42)
	ctx = context.WithValue(ctx, auth.RoleKey, domain.RoleStaff)
	if subscriptionID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", subscriptionID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func TestCreateHandler(t *testing.T) {
	handler, service := NewMock(t)
	now := time.Now()

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful purchase",
			body: `{"teacher_id":3,"duration_months":1,"payment_method":"cash","amount":2000,"videos_access":true}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 42, 3, 1,
						subscriptionservice.AccessRequest{Videos: true}, domain.PaymentMethodCash, 2000.0).
					Return(
						&domain.Subscription{
							ID: 5, UserID: 42, TeacherID: 3, Amount: 2000.0, VideosAccess: true,
							StartsAt: now, EndsAt: now.AddDate(0, 1, 0), ActivatedAt: &now,
							Status: domain.SubscriptionStatusActive,
						},
						&domain.PaymentRecord{
							ID: 7, UserID: 42, Amount: 2000.0, Currency: "DZD",
							Method: domain.PaymentMethodCash, Status: domain.PaymentStatusCompleted,
							Reference: "PAY_abc",
						},
						nil,
					)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "Invalid request body",
			body:         `{"teacher_id":}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Validation error",
			body: `{"teacher_id":3,"duration_months":0,"payment_method":"cash","amount":2000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 42, 3, 0, subscriptionservice.AccessRequest{}, domain.PaymentMethodCash, 2000.0).
					Return(nil, nil, domain.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Teacher not found",
			body: `{"teacher_id":99,"duration_months":1,"payment_method":"cash","amount":2000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 42, 99, 1, subscriptionservice.AccessRequest{}, domain.PaymentMethodCash, 2000.0).
					Return(nil, nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Overlapping subscription",
			body: `{"teacher_id":3,"duration_months":1,"payment_method":"cash","amount":2000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 42, 3, 1, subscriptionservice.AccessRequest{}, domain.PaymentMethodCash, 2000.0).
					Return(nil, nil, domain.ErrConflict)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name: "Internal server error",
			body: `{"teacher_id":3,"duration_months":1,"payment_method":"cash","amount":2000}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 42, 3, 1, subscriptionservice.AccessRequest{}, domain.PaymentMethodCash, 2000.0).
					Return(nil, nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPost, "/subscriptions", tt.body, "")
			w := httptest.NewRecorder()

			handler.Create(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusCreated {
				var body dto.PurchaseResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, 5, body.Subscription.ID)
				assert.Equal(t, domain.SubscriptionStatusActive, body.Subscription.Status)
				assert.Equal(t, 7, body.Payment.ID)
				assert.Equal(t, domain.PaymentStatusCompleted, body.Payment.Status)
			}
		})
	}
}

func TestExtendHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name           string
		subscriptionID string
		body           string
		prepareMock    func()
		expectedCode   int
	}{
		{
			name:           "Successful extension",
			subscriptionID: "5",
			body:           `{"duration_months":2}`,
			prepareMock: func() {
				service.EXPECT().Extend(gomock.Any(), 5, 2, 42).
					Return(&domain.Subscription{ID: 5, Status: domain.SubscriptionStatusActive}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:           "Invalid subscription id",
			subscriptionID: "abc",
			body:           `{"duration_months":2}`,
			prepareMock:    func() {},
			expectedCode:   http.StatusBadRequest,
		},
		{
			name:           "Subscription not found",
			subscriptionID: "99",
			body:           `{"duration_months":2}`,
			prepareMock: func() {
				service.EXPECT().Extend(gomock.Any(), 99, 2, 42).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPost, "/subscriptions/"+tt.subscriptionID+"/extend", tt.body, tt.subscriptionID)
			w := httptest.NewRecorder()

			handler.Extend(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestCancelHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful cancellation",
			prepareMock: func() {
				service.EXPECT().Cancel(gomock.Any(), 5, 42, "student request").
					Return(&domain.Subscription{ID: 5, Status: domain.SubscriptionStatusCancelled}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already cancelled",
			prepareMock: func() {
				service.EXPECT().Cancel(gomock.Any(), 5, 42, "student request").
					Return(nil, domain.ErrConflict)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPost, "/subscriptions/5/cancel", `{"reason":"student request"}`, "5")
			w := httptest.NewRecorder()

			handler.Cancel(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestSweepHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Reports demoted subscriptions",
			prepareMock: func() {
				service.EXPECT().ExpireLapsed(gomock.Any()).Return(int64(7), nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Internal server error",
			prepareMock: func() {
				service.EXPECT().ExpireLapsed(gomock.Any()).Return(int64(0), errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := authedRequest(http.MethodPost, "/admin/sweep", "", "")
			w := httptest.NewRecorder()

			handler.Sweep(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body dto.SweepResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, int64(7), body.Expired)
			}
		})
	}
}
