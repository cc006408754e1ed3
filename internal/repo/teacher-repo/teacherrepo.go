package teacherrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/edupay-dz/edupay/internal/domain"
	"github.com/edupay-dz/edupay/internal/pg"
)

// Repository reads teacher rows owned by the platform schema. This core never
// writes them.
type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.Teacher, error) {
	query := `
        SELECT id, name, is_premium
        FROM teachers
        WHERE id = $1
    `
	var t domain.Teacher
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.IsPremium)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		zap.L().Error("can't find teacher", zap.Error(err))
		return nil, err
	}
	return &t, nil
}
