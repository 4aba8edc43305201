// AngelaMos | 2026
// repository.go

package distributor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/orderdesk/internal/core"
)

type Repository interface {
	Create(ctx context.Context, d *Distributor) error
	GetByID(ctx context.Context, id int64) (*Distributor, error)
	List(ctx context.Context) ([]Distributor, error)
	Delete(ctx context.Context, id int64) error
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, d *Distributor) error {
	query := r.db.Rebind(`
		INSERT INTO dist (name, address, location, contact, email, added_by)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`)

	if err := r.db.GetContext(ctx, &d.ID, query,
		d.Name,
		d.Address,
		d.Location,
		d.Contact,
		d.Email,
		d.AddedBy,
	); err != nil {
		return fmt.Errorf("create distributor: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Distributor, error) {
	query := r.db.Rebind(`
		SELECT id, name, address, location, contact, email, added_by
		FROM dist
		WHERE id = ?`)

	var d Distributor
	err := r.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get distributor: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get distributor: %w", err)
	}

	return &d, nil
}

func (r *repository) List(ctx context.Context) ([]Distributor, error) {
	query := `
		SELECT id, name, address, location, contact, email, added_by
		FROM dist
		ORDER BY id`

	dists := []Distributor{}
	if err := r.db.SelectContext(ctx, &dists, query); err != nil {
		return nil, fmt.Errorf("list distributors: %w", err)
	}

	return dists, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM dist WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete distributor: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete distributor: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete distributor: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ExistsByName(ctx context.Context, name string) (bool, error) {
	query := r.db.Rebind(`SELECT COUNT(*) FROM dist WHERE name = ?`)

	var n int64
	if err := r.db.GetContext(ctx, &n, query, name); err != nil {
		return false, fmt.Errorf("check distributor exists: %w", err)
	}

	return n > 0, nil
}
