package subscriptionservice

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/metrics"
	"github.com/edupay-dz/edupay/internal/pg"
)

type SubscriptionRepo interface {
	Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
	FindByID(ctx context.Context, id int) (*domain.Subscription, error)
	FindOverlapping(ctx context.Context, userID, teacherID int, now time.Time) (*domain.Subscription, error)
	FindPendingByUser(ctx context.Context, userID int) ([]domain.Subscription, error)
	Activate(ctx context.Context, id int, now time.Time) (*domain.Subscription, error)
	Extend(ctx context.Context, id int, endsAt time.Time) (*domain.Subscription, error)
	Cancel(ctx context.Context, id int, now time.Time, reason *string) (*domain.Subscription, error)
	ExpireLapsed(ctx context.Context, now time.Time) (int64, error)
}

type PaymentRepo interface {
	Create(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error)
}

type BalanceRepo interface {
	GetBalanceForUpdate(ctx context.Context, userID int) (float64, error)
	Debit(ctx context.Context, userID int, amount float64) (float64, error)
}

type TeacherRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Teacher, error)
}

// AccessRequest is the caller's requested access flags. What the subscription
// actually grants depends on the teacher, see deriveAccess.
type AccessRequest struct {
	Videos      bool
	Lives       bool
	SchoolEntry bool
}

type Service struct {
	subscriptionRepo SubscriptionRepo
	paymentRepo      PaymentRepo
	balanceRepo      BalanceRepo
	teacherRepo      TeacherRepo
	txManager        pg.TXManager
}

func New(subscriptionRepo SubscriptionRepo, paymentRepo PaymentRepo, balanceRepo BalanceRepo, teacherRepo TeacherRepo, txManager pg.TXManager) *Service {
	return &Service{
		subscriptionRepo: subscriptionRepo,
		paymentRepo:      paymentRepo,
		balanceRepo:      balanceRepo,
		teacherRepo:      teacherRepo,
		txManager:        txManager,
	}
}

// Create opens a subscription and its paired payment record in one
// transaction. Cash starts active with a completed payment; online starts
// pending and waits for balance from a confirmed provider event.
func (s *Service) Create(ctx context.Context, userID, teacherID, durationMonths int, req AccessRequest, paymentMethod string, amount float64) (*domain.Subscription, *domain.PaymentRecord, error) {
	if userID <= 0 || teacherID <= 0 || durationMonths <= 0 || amount <= 0 {
		return nil, nil, domain.ErrValidation
	}
	if paymentMethod != domain.PaymentMethodCash && paymentMethod != domain.PaymentMethodOnline {
		return nil, nil, domain.ErrValidation
	}

	teacher, err := s.teacherRepo.FindByID(ctx, teacherID)
	if err != nil {
		return nil, nil, err
	}
	if teacher == nil {
		return nil, nil, domain.ErrNotFound
	}

	now := time.Now()
	videos, lives, schoolEntry := deriveAccess(teacher, req)

	status := domain.SubscriptionStatusPending
	paymentStatus := domain.PaymentStatusPending
	var activatedAt, processedAt *time.Time
	if paymentMethod == domain.PaymentMethodCash {
		status = domain.SubscriptionStatusActive
		paymentStatus = domain.PaymentStatusCompleted
		activatedAt = &now
		processedAt = &now
	}

	reference := "PAY_" + uuid.NewString()
	subscription := &domain.Subscription{
		UserID:            userID,
		TeacherID:         teacherID,
		Amount:            amount,
		VideosAccess:      videos,
		LivesAccess:       lives,
		SchoolEntryAccess: schoolEntry,
		PaymentReference:  &reference,
		StartsAt:          now,
		EndsAt:            now.AddDate(0, durationMonths, 0),
		ActivatedAt:       activatedAt,
		Status:            status,
	}
	payment := &domain.PaymentRecord{
		UserID:      userID,
		Amount:      amount,
		Currency:    "DZD",
		Method:      paymentMethod,
		Status:      paymentStatus,
		Reference:   reference,
		ProcessedAt: processedAt,
	}

	// The overlap check lives inside the transaction; the partial unique
	// index on open subscriptions catches the race it cannot see.
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		existing, err := s.subscriptionRepo.FindOverlapping(ctx, userID, teacherID, now)
		if err != nil {
			return err
		}
		if existing != nil {
			zap.L().Info("subscription overlap rejected",
				zap.Int("user_id", userID),
				zap.Int("teacher_id", teacherID),
				zap.Time("existing_ends_at", existing.EndsAt))
			return domain.ErrConflict
		}
		if _, err := s.subscriptionRepo.Create(ctx, subscription); err != nil {
			return err
		}
		_, err = s.paymentRepo.Create(ctx, payment)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return subscription, payment, nil
}

// deriveAccess applies the product rules. Premium teachers sell exactly what
// the caller asked for. For regular teachers physical attendance is the
// baseline: school entry is always granted and online flags stay off.
func deriveAccess(teacher *domain.Teacher, req AccessRequest) (videos, lives, schoolEntry bool) {
	if teacher.IsPremium {
		return req.Videos, req.Lives, req.SchoolEntry
	}
	return false, false, true
}

func (s *Service) Extend(ctx context.Context, subscriptionID, durationMonths, staffID int) (*domain.Subscription, error) {
	if durationMonths <= 0 {
		return nil, domain.ErrValidation
	}
	subscription, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, domain.ErrNotFound
	}

	extended, err := s.subscriptionRepo.Extend(ctx, subscriptionID, subscription.EndsAt.AddDate(0, durationMonths, 0))
	if err != nil {
		return nil, err
	}
	zap.L().Info("subscription extended",
		zap.Int("subscription_id", subscriptionID),
		zap.Int("months", durationMonths),
		zap.Int("staff_id", staffID))
	return extended, nil
}

func (s *Service) Cancel(ctx context.Context, subscriptionID, staffID int, reason string) (*domain.Subscription, error) {
	subscription, err := s.subscriptionRepo.FindByID(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if subscription == nil {
		return nil, domain.ErrNotFound
	}
	if subscription.Status == domain.SubscriptionStatusCancelled {
		return nil, domain.ErrConflict
	}

	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	cancelled, err := s.subscriptionRepo.Cancel(ctx, subscriptionID, time.Now(), reasonPtr)
	if err != nil {
		return nil, err
	}
	zap.L().Info("subscription cancelled",
		zap.Int("subscription_id", subscriptionID),
		zap.Int("staff_id", staffID))
	return cancelled, nil
}

// ActivatePending converts the user's pending subscriptions oldest-first
// while the balance covers them. The row lock on the balance serializes
// concurrent credits for the same user, so two credits cannot both read a
// stale balance and double-activate.
func (s *Service) ActivatePending(ctx context.Context, userID int) (int, error) {
	activated := 0
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		balance, err := s.balanceRepo.GetBalanceForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		pending, err := s.subscriptionRepo.FindPendingByUser(ctx, userID)
		if err != nil {
			return err
		}

		now := time.Now()
		for _, sub := range pending {
			if balance < sub.Amount {
				// Left for the next credit event.
				break
			}
			balance, err = s.balanceRepo.Debit(ctx, userID, sub.Amount)
			if err != nil {
				return err
			}
			if _, err := s.subscriptionRepo.Activate(ctx, sub.ID, now); err != nil {
				return err
			}
			activated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if activated > 0 {
		metrics.IncSubscriptionsActivated(activated)
	}
	return activated, nil
}

// ExpireLapsed is bookkeeping only; the entitlement resolver never trusts the
// status column over the time window.
func (s *Service) ExpireLapsed(ctx context.Context) (int64, error) {
	n, err := s.subscriptionRepo.ExpireLapsed(ctx, time.Now())
	if err != nil {
		zap.L().Error("failed to expire lapsed subscriptions", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		metrics.IncSubscriptionsExpired(n)
	}
	return n, nil
}
