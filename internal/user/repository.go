// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByName(ctx context.Context, name string) ([]User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
	DeleteGuest(ctx context.Context, name string) (int64, error)
}

type repository struct {
	db core.DBTX
}

// NewRepository works on a pool or on an open transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := r.db.Rebind(`
		INSERT INTO users (name, type, pass)
		VALUES (?, ?, ?)
		RETURNING id`)

	if err := r.db.GetContext(ctx, &user.ID, query,
		user.Name,
		user.Type,
		user.Pass,
	); err != nil {
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) FindByName(
	ctx context.Context,
	name string,
) ([]User, error) {
	query := r.db.Rebind(`
		SELECT id, name, type, pass
		FROM users
		WHERE name = ?
		ORDER BY id`)

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query, name); err != nil {
		return nil, fmt.Errorf("find users by name: %w", err)
	}

	return users, nil
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	query := `SELECT id, name, type, pass FROM users ORDER BY id`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind(`DELETE FROM users WHERE id = ?`)

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users`)
	if err != nil {
		return 0, fmt.Errorf("delete all users: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all users: %w", err)
	}

	return rows, nil
}

// DeleteGuest removes one Guest account named name, the oldest, and nothing
// else. Each distributor provisions its own guest, so duplicates are removed
// one per distributor.
func (r *repository) DeleteGuest(
	ctx context.Context,
	name string,
) (int64, error) {
	query := r.db.Rebind(`
		DELETE FROM users
		WHERE id = (
			SELECT MIN(id) FROM users WHERE name = ? AND type = ?
		)`)

	result, err := r.db.ExecContext(ctx, query, name, auth.RoleGuest)
	if err != nil {
		return 0, fmt.Errorf("delete guest user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete guest user: %w", err)
	}

	return rows, nil
}
