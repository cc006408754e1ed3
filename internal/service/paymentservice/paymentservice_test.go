package paymentservice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/pg"
)

func NewMock(t *testing.T) (*Service, *MockPaymentRepo, *MockBalanceRepo, *MockActivator, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	paymentRepo := NewMockPaymentRepo(ctrl)
	balanceRepo := NewMockBalanceRepo(ctrl)
	activator := NewMockActivator(ctrl)
	txManager := pg.NewMockTXManager(ctrl)
	service := New(paymentRepo, balanceRepo, activator, txManager)
	defer ctrl.Finish()
	return service, paymentRepo, balanceRepo, activator, txManager
}

func expectTx(txManager *pg.MockTXManager) {
	txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func TestProcessEvent(t *testing.T) {
	service, paymentRepo, balanceRepo, activator, txManager := NewMock(t)

	event := func(status string) *domain.PaymentEvent {
		return &domain.PaymentEvent{
			ExternalTxID: "ext-1",
			Amount:       500.0,
			Currency:     "DZD",
			Status:       status,
			UserID:       1,
			Method:       domain.PaymentMethodOnline,
			Provider:     "chargily",
		}
	}

	tests := []struct {
		name           string
		event          *domain.PaymentEvent
		prepareMock    func()
		expectedErr    error
		expectedStatus string
	}{
		{
			name:  "Success event credits balance and auto-activates",
			event: event(domain.EventStatusSuccess),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, bool, error) {
						assert.True(t, strings.HasPrefix(p.Reference, "PAY_"))
						assert.Equal(t, domain.PaymentStatusPending, p.Status)
						p.ID = 10
						return p, true, nil
					})
				paymentRepo.EXPECT().Transition(gomock.Any(), 10, domain.PaymentStatusCompleted, nil, nil).
					Return(&domain.PaymentRecord{ID: 10, UserID: 1, Amount: 500.0, Status: domain.PaymentStatusCompleted}, nil)
				balanceRepo.EXPECT().Credit(gomock.Any(), 1, 500.0).Return(500.0, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 1).Return(1, nil)
			},
			expectedStatus: domain.PaymentStatusCompleted,
		},
		{
			name:  "Duplicate of a completed record re-runs activation",
			event: event(domain.EventStatusSuccess),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
					Return(&domain.PaymentRecord{ID: 10, UserID: 1, Amount: 500.0, Status: domain.PaymentStatusCompleted}, false, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 1).Return(1, nil)
			},
			expectedErr:    domain.ErrDuplicateEvent,
			expectedStatus: domain.PaymentStatusCompleted,
		},
		{
			name:  "Duplicate of a pending record skips activation",
			event: event(domain.EventStatusSuccess),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
					Return(&domain.PaymentRecord{ID: 10, UserID: 1, Amount: 500.0, Status: domain.PaymentStatusPending}, false, nil)
			},
			expectedErr:    domain.ErrDuplicateEvent,
			expectedStatus: domain.PaymentStatusPending,
		},
		{
			name:  "Activation failure is returned for retry",
			event: event(domain.EventStatusSuccess),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, bool, error) {
						p.ID = 10
						return p, true, nil
					})
				paymentRepo.EXPECT().Transition(gomock.Any(), 10, domain.PaymentStatusCompleted, nil, nil).
					Return(&domain.PaymentRecord{ID: 10, UserID: 1, Amount: 500.0, Status: domain.PaymentStatusCompleted}, nil)
				balanceRepo.EXPECT().Credit(gomock.Any(), 1, 500.0).Return(500.0, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 1).Return(0, errors.New("activation error"))
			},
			expectedErr: errors.New("activation error"),
		},
		{
			name:  "Redelivery retries a failed activation",
			event: event(domain.EventStatusSuccess),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
					Return(&domain.PaymentRecord{ID: 10, UserID: 1, Amount: 500.0, Status: domain.PaymentStatusCompleted}, false, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 1).Return(0, errors.New("activation error"))
			},
			expectedErr: errors.New("activation error"),
		},
		{
			name:  "Failed event marks the record failed without credit",
			event: event(domain.EventStatusFailed),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, bool, error) {
						p.ID = 11
						return p, true, nil
					})
				paymentRepo.EXPECT().Transition(gomock.Any(), 11, domain.PaymentStatusFailed, nil, nil).
					Return(&domain.PaymentRecord{ID: 11, UserID: 1, Amount: 500.0, Status: domain.PaymentStatusFailed}, nil)
			},
			expectedStatus: domain.PaymentStatusFailed,
		},
		{
			name:  "Pending event stays pending",
			event: event(domain.EventStatusPending),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, bool, error) {
						p.ID = 12
						return p, true, nil
					})
			},
			expectedStatus: domain.PaymentStatusPending,
		},
		{
			name:        "Missing external transaction id",
			event:       &domain.PaymentEvent{Amount: 500.0, UserID: 1},
			prepareMock: func() {},
			expectedErr: domain.ErrValidation,
		},
		{
			name:        "Non-positive amount",
			event:       &domain.PaymentEvent{ExternalTxID: "ext-1", Amount: 0, UserID: 1},
			prepareMock: func() {},
			expectedErr: domain.ErrValidation,
		},
		{
			name:  "Repository error rolls back",
			event: event(domain.EventStatusSuccess),
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().InsertIfAbsent(gomock.Any(), gomock.Any()).
					Return(nil, false, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			record, err := service.ProcessEvent(context.Background(), tt.event)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedErr.Error(), err.Error())
				if errors.Is(err, domain.ErrDuplicateEvent) {
					assert.NotNil(t, record)
					assert.Equal(t, tt.expectedStatus, record.Status)
				}
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, record.Status)
		})
	}
}

func TestRecordCash(t *testing.T) {
	service, paymentRepo, balanceRepo, activator, txManager := NewMock(t)

	tests := []struct {
		name        string
		userID      int
		amount      float64
		reference   string
		prepareMock func()
		expectedErr error
		checkRecord func(*domain.PaymentRecord)
	}{
		{
			name:   "Generates a cash reference when none given",
			userID: 1,
			amount: 1500.0,
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error) {
						p.ID = 20
						return p, nil
					})
				balanceRepo.EXPECT().Credit(gomock.Any(), 1, 1500.0).Return(1500.0, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 1).Return(0, nil)
			},
			checkRecord: func(p *domain.PaymentRecord) {
				assert.True(t, strings.HasPrefix(p.Reference, "CASH_"))
				assert.Equal(t, domain.PaymentStatusCompleted, p.Status)
				assert.Equal(t, domain.PaymentMethodCash, p.Method)
				assert.NotNil(t, p.ProcessedBy)
				assert.NotNil(t, p.ProcessedAt)
			},
		},
		{
			name:      "Keeps the caller's reference",
			userID:    1,
			amount:    1500.0,
			reference: "CASH_RECEIPT_7",
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
					func(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error) {
						p.ID = 21
						return p, nil
					})
				balanceRepo.EXPECT().Credit(gomock.Any(), 1, 1500.0).Return(1500.0, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 1).Return(0, nil)
			},
			checkRecord: func(p *domain.PaymentRecord) {
				assert.Equal(t, "CASH_RECEIPT_7", p.Reference)
			},
		},
		{
			name:        "Rejects non-positive amount",
			userID:      1,
			amount:      0,
			prepareMock: func() {},
			expectedErr: domain.ErrValidation,
		},
		{
			name:   "Repository error rolls back",
			userID: 1,
			amount: 1500.0,
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			record, err := service.RecordCash(context.Background(), tt.userID, tt.amount, 9, tt.reference)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedErr.Error(), err.Error())
				return
			}
			assert.NoError(t, err)
			tt.checkRecord(record)
		})
	}
}

func TestApprove(t *testing.T) {
	service, paymentRepo, balanceRepo, activator, txManager := NewMock(t)

	pending := &domain.PaymentRecord{ID: 1, UserID: 2, Amount: 500.0, Status: domain.PaymentStatusPending}

	tests := []struct {
		name        string
		prepareMock func()
		expectedErr error
	}{
		{
			name: "Approves a pending payment",
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().FindByID(gomock.Any(), 1).Return(pending, nil)
				paymentRepo.EXPECT().Transition(gomock.Any(), 1, domain.PaymentStatusCompleted, gomock.Any(), nil).
					Return(&domain.PaymentRecord{ID: 1, UserID: 2, Amount: 500.0, Status: domain.PaymentStatusCompleted}, nil)
				balanceRepo.EXPECT().Credit(gomock.Any(), 2, 500.0).Return(500.0, nil)
				activator.EXPECT().ActivatePending(gomock.Any(), 2).Return(0, nil)
			},
		},
		{
			name: "Unknown payment",
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().FindByID(gomock.Any(), 1).Return(nil, nil)
			},
			expectedErr: domain.ErrNotFound,
		},
		{
			name: "Already completed",
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().FindByID(gomock.Any(), 1).
					Return(&domain.PaymentRecord{ID: 1, Status: domain.PaymentStatusCompleted}, nil)
			},
			expectedErr: domain.ErrStateConflict,
		},
		{
			name: "Lost the transition race",
			prepareMock: func() {
				expectTx(txManager)
				paymentRepo.EXPECT().FindByID(gomock.Any(), 1).Return(pending, nil)
				paymentRepo.EXPECT().Transition(gomock.Any(), 1, domain.PaymentStatusCompleted, gomock.Any(), nil).
					Return(nil, nil)
			},
			expectedErr: domain.ErrStateConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			record, err := service.Approve(context.Background(), 1, 9)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, record)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, domain.PaymentStatusCompleted, record.Status)
		})
	}
}

func TestReject(t *testing.T) {
	service, paymentRepo, _, _, txManager := NewMock(t)

	expectTx(txManager)
	paymentRepo.EXPECT().FindByID(gomock.Any(), 1).
		Return(&domain.PaymentRecord{ID: 1, UserID: 2, Status: domain.PaymentStatusPending}, nil)
	paymentRepo.EXPECT().Transition(gomock.Any(), 1, domain.PaymentStatusFailed, gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, id int, status string, processedBy *int, reason *string) (*domain.PaymentRecord, error) {
			assert.Equal(t, 9, *processedBy)
			assert.Equal(t, "amount mismatch", *reason)
			return &domain.PaymentRecord{ID: 1, Status: domain.PaymentStatusFailed, RejectionReason: reason}, nil
		})

	record, err := service.Reject(context.Background(), 1, 9, "amount mismatch")
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusFailed, record.Status)
}

func TestCancel(t *testing.T) {
	service, paymentRepo, _, _, txManager := NewMock(t)

	expectTx(txManager)
	paymentRepo.EXPECT().FindByID(gomock.Any(), 1).
		Return(&domain.PaymentRecord{ID: 1, UserID: 2, Status: domain.PaymentStatusPending}, nil)
	paymentRepo.EXPECT().Transition(gomock.Any(), 1, domain.PaymentStatusCancelled, gomock.Any(), nil).
		Return(&domain.PaymentRecord{ID: 1, Status: domain.PaymentStatusCancelled}, nil)

	record, err := service.Cancel(context.Background(), 1, 9)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCancelled, record.Status)
}

func TestGetPayments(t *testing.T) {
	service, paymentRepo, _, _, _ := NewMock(t)

	tests := []struct {
		name        string
		prepareMock func()
		expectedErr error
		expectedLen int
	}{
		{
			name: "Returns payments",
			prepareMock: func() {
				paymentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return([]domain.PaymentRecord{
					{ID: 1, UserID: 1}, {ID: 2, UserID: 1},
				}, nil)
			},
			expectedLen: 2,
		},
		{
			name: "Repository error",
			prepareMock: func() {
				paymentRepo.EXPECT().FindByUserID(gomock.Any(), 1).Return(nil, errors.New("database error"))
			},
			expectedErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			payments, err := service.GetPayments(context.Background(), 1)

			if tt.expectedErr != nil {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, payments, tt.expectedLen)
		})
	}
}
