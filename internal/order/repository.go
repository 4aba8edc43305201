// AngelaMos | 2026
// repository.go

package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/orderdesk/internal/core"
)

const orderColumns = `id, "date", "time", dist, location, model, color, spec,
	quantity, status, remark, added_by, update_by`

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByStatus(ctx context.Context, status Status) ([]Order, error)
	UpdateStatus(ctx context.Context, id int64, status Status, remark, updateBy string) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	query := r.db.Rebind(`
		INSERT INTO po ("date", "time", dist, location, model, color, spec,
			quantity, status, remark, added_by, update_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	if err := r.db.GetContext(ctx, &o.ID, query,
		o.Date,
		o.Time,
		o.Dist,
		o.Location,
		o.Model,
		o.Color,
		o.Spec,
		o.Quantity,
		o.Status,
		o.Remark,
		o.AddedBy,
		o.UpdateBy,
	); err != nil {
		return fmt.Errorf("create order: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Order, error) {
	query := r.db.Rebind(`SELECT ` + orderColumns + ` FROM po WHERE id = ?`)

	var o Order
	err := r.db.GetContext(ctx, &o, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get order %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	return &o, nil
}

func (r *repository) ListByStatus(
	ctx context.Context,
	status Status,
) ([]Order, error) {
	query := r.db.Rebind(`SELECT ` + orderColumns + ` FROM po WHERE status = ? ORDER BY id`)

	orders := []Order{}
	if err := r.db.SelectContext(ctx, &orders, query, status); err != nil {
		return nil, fmt.Errorf("list orders by status: %w", err)
	}

	return orders, nil
}

// UpdateStatus overwrites status, remark and update_by only.
func (r *repository) UpdateStatus(
	ctx context.Context,
	id int64,
	status Status,
	remark, updateBy string,
) error {
	query := r.db.Rebind(`
		UPDATE po
		SET status = ?, remark = ?, update_by = ?
		WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, status, remark, updateBy, id)
	if err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order %d: %w", id, err)
	}

	if rows == 0 {
		return fmt.Errorf("update order %d: %w", id, core.ErrNotFound)
	}

	return nil
}
