package paymentservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/metrics"
	"github.com/edupay-dz/edupay/internal/pg"
)

type PaymentRepo interface {
	Create(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error)
	InsertIfAbsent(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, bool, error)
	FindByID(ctx context.Context, id int) (*domain.PaymentRecord, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.PaymentRecord, error)
	Transition(ctx context.Context, id int, status string, processedBy *int, reason *string) (*domain.PaymentRecord, error)
}

type BalanceRepo interface {
	Credit(ctx context.Context, userID int, amount float64) (float64, error)
}

// Activator converts pending subscriptions the new balance can cover.
// Implemented by the subscription service; runs in its own transaction.
type Activator interface {
	ActivatePending(ctx context.Context, userID int) (int, error)
}

type Service struct {
	paymentRepo PaymentRepo
	balanceRepo BalanceRepo
	activator   Activator
	txManager   pg.TXManager
}

func New(paymentRepo PaymentRepo, balanceRepo BalanceRepo, activator Activator, txManager pg.TXManager) *Service {
	return &Service{
		paymentRepo: paymentRepo,
		balanceRepo: balanceRepo,
		activator:   activator,
		txManager:   txManager,
	}
}

// ProcessEvent applies one normalized provider event to the ledger. Delivery
// retries are free: the upsert resolves duplicates to the existing record and
// domain.ErrDuplicateEvent. A completed record re-runs auto-activation even on
// redelivery, so a failure between the credit commit and the activation call
// heals on the next attempt.
func (s *Service) ProcessEvent(ctx context.Context, event *domain.PaymentEvent) (*domain.PaymentRecord, error) {
	if event.ExternalTxID == "" || event.UserID <= 0 || event.Amount <= 0 {
		return nil, domain.ErrValidation
	}

	externalTxID := event.ExternalTxID
	provider := event.Provider
	record := &domain.PaymentRecord{
		ExternalTxID: &externalTxID,
		UserID:       event.UserID,
		Amount:       event.Amount,
		Currency:     event.Currency,
		Method:       event.Method,
		Status:       domain.PaymentStatusPending,
		Reference:    "PAY_" + uuid.NewString(),
		Provider:     &provider,
		RawPayload:   event.Raw,
	}

	var duplicate bool
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		saved, created, err := s.paymentRepo.InsertIfAbsent(ctx, record)
		if err != nil {
			return err
		}
		if !created {
			zap.L().Info("duplicate payment event ignored",
				zap.String("external_tx_id", event.ExternalTxID),
				zap.String("provider", event.Provider))
			record = saved
			duplicate = true
			return nil
		}
		record = saved

		switch event.Status {
		case domain.EventStatusSuccess:
			record, err = s.paymentRepo.Transition(ctx, record.ID, domain.PaymentStatusCompleted, nil, nil)
			if err != nil {
				return err
			}
			if _, err := s.balanceRepo.Credit(ctx, event.UserID, event.Amount); err != nil {
				return err
			}
		case domain.EventStatusFailed:
			record, err = s.paymentRepo.Transition(ctx, record.ID, domain.PaymentStatusFailed, nil, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if record.Status == domain.PaymentStatusCompleted {
		if !duplicate {
			metrics.IncPaymentsCompleted()
		}
		// ActivatePending is idempotent, so it runs on redelivery too. The
		// returned error keeps the committed credit under the caller's retry
		// budget when activation fails.
		if err := s.autoActivate(ctx, event.UserID); err != nil {
			return nil, err
		}
	}
	if duplicate {
		return record, domain.ErrDuplicateEvent
	}
	return record, nil
}

// RecordCash registers staff-entered cash. Cash is trusted and final: the
// record is born completed and the balance credited synchronously.
func (s *Service) RecordCash(ctx context.Context, userID int, amount float64, staffID int, reference string) (*domain.PaymentRecord, error) {
	if userID <= 0 || amount <= 0 {
		return nil, domain.ErrValidation
	}
	if reference == "" {
		reference = "CASH_" + strings.ToUpper(uuid.NewString()[:8])
	}

	now := time.Now()
	record := &domain.PaymentRecord{
		UserID:      userID,
		Amount:      amount,
		Currency:    "DZD",
		Method:      domain.PaymentMethodCash,
		Status:      domain.PaymentStatusCompleted,
		Reference:   reference,
		ProcessedBy: &staffID,
		ProcessedAt: &now,
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		if _, err := s.paymentRepo.Create(ctx, record); err != nil {
			return err
		}
		_, err := s.balanceRepo.Credit(ctx, userID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPaymentsCompleted()
	s.autoActivate(ctx, userID)
	return record, nil
}

func (s *Service) Approve(ctx context.Context, paymentID, staffID int) (*domain.PaymentRecord, error) {
	var record *domain.PaymentRecord
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.transition(ctx, paymentID, domain.PaymentStatusCompleted, staffID, nil)
		if err != nil {
			return err
		}
		_, err = s.balanceRepo.Credit(ctx, record.UserID, record.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.IncPaymentsCompleted()
	s.autoActivate(ctx, record.UserID)
	return record, nil
}

func (s *Service) Reject(ctx context.Context, paymentID, staffID int, reason string) (*domain.PaymentRecord, error) {
	var record *domain.PaymentRecord
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.transition(ctx, paymentID, domain.PaymentStatusFailed, staffID, &reason)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) Cancel(ctx context.Context, paymentID, staffID int) (*domain.PaymentRecord, error) {
	var record *domain.PaymentRecord
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.transition(ctx, paymentID, domain.PaymentStatusCancelled, staffID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) GetPayments(ctx context.Context, userID int) ([]domain.PaymentRecord, error) {
	payments, err := s.paymentRepo.FindByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get payments", zap.Error(err))
		return nil, err
	}
	return payments, nil
}

func (s *Service) transition(ctx context.Context, paymentID int, status string, staffID int, reason *string) (*domain.PaymentRecord, error) {
	existing, err := s.paymentRepo.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, domain.ErrNotFound
	}
	if existing.Status != domain.PaymentStatusPending {
		zap.L().Info("rejected illegal payment transition",
			zap.Int("payment_id", paymentID),
			zap.String("from", existing.Status),
			zap.String("to", status))
		return nil, domain.ErrStateConflict
	}

	record, err := s.paymentRepo.Transition(ctx, paymentID, status, &staffID, reason)
	if err != nil {
		return nil, err
	}
	// Lost a race with another transition between the read and the update.
	if record == nil {
		return nil, domain.ErrStateConflict
	}
	return record, nil
}

func (s *Service) autoActivate(ctx context.Context, userID int) error {
	n, err := s.activator.ActivatePending(ctx, userID)
	if err != nil {
		zap.L().Error("auto-activation failed", zap.Int("user_id", userID), zap.Error(err))
		return err
	}
	if n > 0 {
		zap.L().Info("auto-activated subscriptions", zap.Int("user_id", userID), zap.Int("count", n))
	}
	return nil
}
