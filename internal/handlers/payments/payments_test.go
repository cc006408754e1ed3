package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/dto"
	"github.com/edupay-dz/edupay/pkg/auth"
)

func NewMock(t *testing.T) (*PaymentHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func staffRequest(method, target, body, paymentID string) *http.Request {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, bytes.NewBufferString(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(r.Context(), auth.UserIDKey, 9)
	ctx = context.WithValue(ctx, auth.RoleKey, domain.RoleStaff)
	if paymentID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", paymentID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return r.WithContext(ctx)
}

func TestRecordCashHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful cash payment",
			body: `{"user_id":42,"amount":1500,"reference":"CASH_RECEIPT_7"}`,
			prepareMock: func() {
				service.EXPECT().
					RecordCash(gomock.Any(), 42, 1500.0, 9, "CASH_RECEIPT_7").
					Return(&domain.PaymentRecord{
						ID: 1, UserID: 42, Amount: 1500.0, Currency: "DZD",
						Method: domain.PaymentMethodCash, Status: domain.PaymentStatusCompleted,
						Reference: "CASH_RECEIPT_7",
					}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "Invalid request body",
			body:          `{"user_id":invalid}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "invalid request body",
		},
		{
			name: "Validation error",
			body: `{"user_id":42,"amount":0}`,
			prepareMock: func() {
				service.EXPECT().
					RecordCash(gomock.Any(), 42, 0.0, 9, "").
					Return(nil, domain.ErrValidation)
			},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Internal server error",
			body: `{"user_id":42,"amount":1500}`,
			prepareMock: func() {
				service.EXPECT().
					RecordCash(gomock.Any(), 42, 1500.0, 9, "").
					Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := staffRequest(http.MethodPost, "/payments/cash", tt.body, "")
			w := httptest.NewRecorder()

			handler.RecordCash(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				assert.Contains(t, w.Body.String(), tt.expectedError)
			}
			if tt.expectedCode == http.StatusCreated {
				var body dto.PaymentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Equal(t, domain.PaymentStatusCompleted, body.Status)
				assert.Equal(t, "CASH_RECEIPT_7", body.Reference)
			}
		})
	}
}

func TestApproveHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		paymentID    string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:      "Successful approval",
			paymentID: "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 9).
					Return(&domain.PaymentRecord{ID: 1, Status: domain.PaymentStatusCompleted}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid payment id",
			paymentID:    "abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:      "Payment not found",
			paymentID: "99",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 99, 9).Return(nil, domain.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:      "Payment is not pending",
			paymentID: "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 9).Return(nil, domain.ErrStateConflict)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:      "Internal server error",
			paymentID: "1",
			prepareMock: func() {
				service.EXPECT().Approve(gomock.Any(), 1, 9).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := staffRequest(http.MethodPost, "/payments/"+tt.paymentID+"/approve", "", tt.paymentID)
			w := httptest.NewRecorder()

			handler.Approve(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestRejectHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Successful rejection",
			body: `{"reason":"amount mismatch"}`,
			prepareMock: func() {
				service.EXPECT().Reject(gomock.Any(), 1, 9, "amount mismatch").
					Return(&domain.PaymentRecord{ID: 1, Status: domain.PaymentStatusFailed}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Invalid request body",
			body:         `{"reason":}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "Payment is not pending",
			body: `{"reason":"amount mismatch"}`,
			prepareMock: func() {
				service.EXPECT().Reject(gomock.Any(), 1, 9, "amount mismatch").
					Return(nil, domain.ErrStateConflict)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := staffRequest(http.MethodPost, "/payments/1/reject", tt.body, "1")
			w := httptest.NewRecorder()

			handler.Reject(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestCancelHandler(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Cancel(gomock.Any(), 1, 9).
		Return(&domain.PaymentRecord{ID: 1, Status: domain.PaymentStatusCancelled}, nil)

	r := staffRequest(http.MethodPost, "/payments/1/cancel", "", "1")
	w := httptest.NewRecorder()

	handler.Cancel(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	var body dto.PaymentResponseDTO
	_ = json.NewDecoder(w.Body).Decode(&body)
	assert.Equal(t, domain.PaymentStatusCancelled, body.Status)
}

func TestGetPaymentsHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		target       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "Returns payments",
			target: "/payments?user_id=42",
			prepareMock: func() {
				service.EXPECT().GetPayments(gomock.Any(), 42).Return([]domain.PaymentRecord{
					{ID: 1, UserID: 42}, {ID: 2, UserID: 42},
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "No payments",
			target: "/payments?user_id=42",
			prepareMock: func() {
				service.EXPECT().GetPayments(gomock.Any(), 42).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Invalid user id",
			target:       "/payments?user_id=abc",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "Internal server error",
			target: "/payments?user_id=42",
			prepareMock: func() {
				service.EXPECT().GetPayments(gomock.Any(), 42).Return(nil, errors.New("error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			r := staffRequest(http.MethodGet, tt.target, "", "")
			w := httptest.NewRecorder()

			handler.GetPayments(w, r)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedCode == http.StatusOK {
				var body []dto.PaymentResponseDTO
				_ = json.NewDecoder(w.Body).Decode(&body)
				assert.Len(t, body, 2)
			}
		})
	}
}
