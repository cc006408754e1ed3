package balancerepo

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

func (r *Repository) GetBalance(ctx context.Context, userID int) (float64, error) {
	query := `
        SELECT balance
        FROM users
        WHERE id = $1
    `
	var balance float64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		zap.L().Error("failed to get user balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// GetBalanceForUpdate locks the user's row for the rest of the surrounding
// transaction, serializing concurrent credit-and-activate sequences.
func (r *Repository) GetBalanceForUpdate(ctx context.Context, userID int) (float64, error) {
	query := `
        SELECT balance
        FROM users
        WHERE id = $1
        FOR UPDATE
    `
	var balance float64
	err := r.db.QueryRow(ctx, query, userID).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		zap.L().Error("failed to lock user balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

func (r *Repository) Credit(ctx context.Context, userID int, amount float64) (float64, error) {
	query := `
        UPDATE users
        SET balance = balance + $2
        WHERE id = $1
        RETURNING balance
    `
	var balance float64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrNotFound
	}
	if err != nil {
		zap.L().Error("failed to credit user balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}

// Debit guards the balance in the WHERE clause; a negative balance is
// unrepresentable regardless of interleaving.
func (r *Repository) Debit(ctx context.Context, userID int, amount float64) (float64, error) {
	query := `
        UPDATE users
        SET balance = balance - $2
        WHERE id = $1 AND balance >= $2
        RETURNING balance
    `
	var balance float64
	err := r.db.QueryRow(ctx, query, userID, amount).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrInsufficientBalance
	}
	if err != nil {
		zap.L().Error("failed to debit user balance", zap.Error(err))
		return 0, err
	}
	return balance, nil
}
