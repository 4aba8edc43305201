// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/orderdesk/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Model) error
	List(ctx context.Context) ([]Model, error)
	DeleteTuple(ctx context.Context, t Tuple) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Model) error {
	query := r.db.Rebind(`
		INSERT INTO models (brand, model, color, specs)
		VALUES (?, ?, ?, ?)
		RETURNING id`)

	if err := r.db.GetContext(ctx, &m.ID, query,
		m.Brand,
		m.Model,
		m.Color,
		m.Specs,
	); err != nil {
		return fmt.Errorf("create model: %w", err)
	}

	return nil
}

// List returns the whole catalog in insertion order.
func (r *repository) List(ctx context.Context) ([]Model, error) {
	query := `SELECT id, brand, model, color, specs FROM models ORDER BY id`

	models := []Model{}
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}

	return models, nil
}

func (r *repository) DeleteTuple(ctx context.Context, t Tuple) (int64, error) {
	query := r.db.Rebind(`
		DELETE FROM models
		WHERE brand = ? AND model = ? AND color = ? AND specs = ?`)

	result, err := r.db.ExecContext(ctx, query, t.Brand, t.Model, t.Color, t.Specs)
	if err != nil {
		return 0, fmt.Errorf("delete model: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete model: %w", err)
	}

	return rows, nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM models`)
	if err != nil {
		return 0, fmt.Errorf("delete all models: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all models: %w", err)
	}

	return rows, nil
}
