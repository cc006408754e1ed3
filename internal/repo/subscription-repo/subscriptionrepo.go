package subscriptionrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

const subscriptionColumns = `id, user_id, teacher_id, amount, videos_access, lives_access, school_entry_access, payment_reference, starts_at, ends_at, activated_at, status, rejection_reason, created_at`

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var s domain.Subscription
	err := row.Scan(
		&s.ID, &s.UserID, &s.TeacherID, &s.Amount, &s.VideosAccess, &s.LivesAccess,
		&s.SchoolEntryAccess, &s.PaymentReference, &s.StartsAt, &s.EndsAt,
		&s.ActivatedAt, &s.Status, &s.RejectionReason, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	query := `
        INSERT INTO subscriptions (user_id, teacher_id, amount, videos_access, lives_access, school_entry_access, payment_reference, starts_at, ends_at, activated_at, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query,
		s.UserID, s.TeacherID, s.Amount, s.VideosAccess, s.LivesAccess,
		s.SchoolEntryAccess, s.PaymentReference, s.StartsAt, s.EndsAt,
		s.ActivatedAt, s.Status,
	)
	if err := row.Scan(&s.ID, &s.CreatedAt); err != nil {
		// The partial unique index on open (user_id, teacher_id) pairs
		// rejects the loser of a concurrent purchase race.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrConflict
		}
		zap.L().Error("can't save subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE id = $1
    `
	s, err := scanSubscription(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

// FindOverlapping returns a subscription to the same teacher whose window is
// still open, if one exists.
func (r *Repository) FindOverlapping(ctx context.Context, userID, teacherID int, now time.Time) (*domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE user_id = $1 AND teacher_id = $2
          AND status IN ('pending', 'active')
          AND ends_at > $3
        ORDER BY ends_at DESC
        LIMIT 1
    `
	s, err := scanSubscription(r.db.QueryRow(ctx, query, userID, teacherID, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find overlapping subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

// FindActive returns the newest active-status subscription for the pair. The
// entitlement resolver re-checks the time window itself; status here is only
// an index convenience.
func (r *Repository) FindActive(ctx context.Context, userID, teacherID int) (*domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE user_id = $1 AND teacher_id = $2 AND status = 'active'
        ORDER BY ends_at DESC
        LIMIT 1
    `
	s, err := scanSubscription(r.db.QueryRow(ctx, query, userID, teacherID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find active subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

func (r *Repository) FindPendingByUser(ctx context.Context, userID int) ([]domain.Subscription, error) {
	query := `
        SELECT ` + subscriptionColumns + `
        FROM subscriptions
        WHERE user_id = $1 AND status = 'pending'
        ORDER BY created_at ASC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get pending subscriptions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			zap.L().Error("can't scan subscription row", zap.Error(err))
			return nil, err
		}
		subs = append(subs, *s)
	}
	return subs, nil
}

func (r *Repository) Activate(ctx context.Context, id int, now time.Time) (*domain.Subscription, error) {
	query := `
        UPDATE subscriptions
        SET status = 'active', activated_at = $2
        WHERE id = $1 AND status = 'pending'
        RETURNING ` + subscriptionColumns + `
    `
	s, err := scanSubscription(r.db.QueryRow(ctx, query, id, now))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't activate subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

func (r *Repository) Extend(ctx context.Context, id int, endsAt time.Time) (*domain.Subscription, error) {
	query := `
        UPDATE subscriptions
        SET ends_at = $2, status = 'active'
        WHERE id = $1
        RETURNING ` + subscriptionColumns + `
    `
	s, err := scanSubscription(r.db.QueryRow(ctx, query, id, endsAt))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't extend subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

func (r *Repository) Cancel(ctx context.Context, id int, now time.Time, reason *string) (*domain.Subscription, error) {
	query := `
        UPDATE subscriptions
        SET ends_at = $2, status = 'cancelled', rejection_reason = $3
        WHERE id = $1
        RETURNING ` + subscriptionColumns + `
    `
	s, err := scanSubscription(r.db.QueryRow(ctx, query, id, now, reason))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't cancel subscription", zap.Error(err))
		return nil, err
	}
	return s, nil
}

// ExpireLapsed is the sweep's single statement: demote every active
// subscription whose window has closed.
func (r *Repository) ExpireLapsed(ctx context.Context, now time.Time) (int64, error) {
	query := `
        UPDATE subscriptions
        SET status = 'expired'
        WHERE status = 'active' AND ends_at < $1
    `
	tag, err := r.db.Exec(ctx, query, now)
	if err != nil {
		zap.L().Error("can't expire lapsed subscriptions", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}
