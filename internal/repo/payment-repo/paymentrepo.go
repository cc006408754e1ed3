package paymentrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

const paymentColumns = `id, external_transaction_id, user_id, amount, currency, payment_method, status, reference, provider, raw_payload, rejection_reason, processed_by, processed_at, created_at`

func scanPayment(row pgx.Row) (*domain.PaymentRecord, error) {
	var p domain.PaymentRecord
	err := row.Scan(
		&p.ID, &p.ExternalTxID, &p.UserID, &p.Amount, &p.Currency, &p.Method,
		&p.Status, &p.Reference, &p.Provider, &p.RawPayload, &p.RejectionReason,
		&p.ProcessedBy, &p.ProcessedAt, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Create(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, error) {
	query := `
        INSERT INTO payments (external_transaction_id, user_id, amount, currency, payment_method, status, reference, provider, raw_payload, rejection_reason, processed_by, processed_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query,
		p.ExternalTxID, p.UserID, p.Amount, p.Currency, p.Method, p.Status,
		p.Reference, p.Provider, p.RawPayload, p.RejectionReason, p.ProcessedBy, p.ProcessedAt,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		zap.L().Error("can't save payment", zap.Error(err))
		return nil, err
	}
	return p, nil
}

// InsertIfAbsent is the idempotent upsert backing webhook processing. The
// partial unique index on external_transaction_id resolves the race between
// two concurrent deliveries of the same event; the loser reads the winner's
// row. Returns the record and whether this call created it.
func (r *Repository) InsertIfAbsent(ctx context.Context, p *domain.PaymentRecord) (*domain.PaymentRecord, bool, error) {
	query := `
        INSERT INTO payments (external_transaction_id, user_id, amount, currency, payment_method, status, reference, provider, raw_payload)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (external_transaction_id) WHERE external_transaction_id IS NOT NULL DO NOTHING
        RETURNING id, created_at
    `
	row := r.db.QueryRow(ctx, query,
		p.ExternalTxID, p.UserID, p.Amount, p.Currency, p.Method, p.Status,
		p.Reference, p.Provider, p.RawPayload,
	)
	err := row.Scan(&p.ID, &p.CreatedAt)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		zap.L().Error("can't upsert payment", zap.Error(err))
		return nil, false, err
	}

	existing, err := r.FindByExternalTxID(ctx, *p.ExternalTxID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.PaymentRecord, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE id = $1
    `
	p, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) FindByExternalTxID(ctx context.Context, externalTxID string) (*domain.PaymentRecord, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE external_transaction_id = $1
    `
	p, err := scanPayment(r.db.QueryRow(ctx, query, externalTxID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find payment by external transaction id", zap.Error(err))
		return nil, err
	}
	return p, nil
}

func (r *Repository) FindByUserID(ctx context.Context, userID int) ([]domain.PaymentRecord, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't get payments", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var payments []domain.PaymentRecord
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			zap.L().Error("can't scan payment row", zap.Error(err))
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, nil
}

// Transition moves a pending payment into a terminal status. The status guard
// lives in the WHERE clause so a concurrent transition loses cleanly: no row
// is updated and nil is returned.
func (r *Repository) Transition(ctx context.Context, id int, status string, processedBy *int, reason *string) (*domain.PaymentRecord, error) {
	query := `
        UPDATE payments
        SET status = $2, processed_by = $3, processed_at = now(), rejection_reason = $4
        WHERE id = $1 AND status = 'pending'
        RETURNING ` + paymentColumns + `
    `
	p, err := scanPayment(r.db.QueryRow(ctx, query, id, status, processedBy, reason))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't transition payment", zap.Error(err))
		return nil, err
	}
	return p, nil
}
