// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/tabular"
)

// ImportColumns are the columns a user import file must carry.
var ImportColumns = []string{"name", "type", "pass"}

type Service struct {
	db     *sqlx.DB
	repo   Repository
	hasher auth.PasswordHasher
}

func NewService(db *sqlx.DB, hasher auth.PasswordHasher) *Service {
	return &Service{
		db:     db,
		repo:   NewRepository(db),
		hasher: hasher,
	}
}

// FindByName satisfies auth.UserProvider.
func (s *Service) FindByName(
	ctx context.Context,
	name string,
) ([]auth.UserInfo, error) {
	users, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	infos := make([]auth.UserInfo, 0, len(users))
	for _, u := range users {
		infos = append(infos, auth.UserInfo{
			Name:     u.Name,
			Role:     u.Type,
			Password: u.Pass,
		})
	}
	return infos, nil
}

func (s *Service) Create(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	name := auth.NormalizeName(req.Name)
	if name == "" {
		return nil, core.Invalidf("name is required")
	}
	if !auth.IsKnownRole(req.Type) {
		return nil, core.Invalidf("unknown user type %q", req.Type)
	}

	u, err := s.newUser(name, req.Type, req.Password)
	if err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "user.Create")
	err = s.repo.Create(ctx, u)
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return u, nil
}

// CreateIn inserts a user on an open transaction. The role is taken as
// given.
func (s *Service) CreateIn(
	ctx context.Context,
	tx core.DBTX,
	name, role, password string,
) (*User, error) {
	u, err := s.newUser(auth.NormalizeName(name), role, password)
	if err != nil {
		return nil, err
	}

	if err := NewRepository(tx).Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) newUser(name, role, password string) (*User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &User{Name: name, Type: role, Pass: hash}, nil
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Reset deletes every user. It refuses to run unless confirm is set.
func (s *Service) Reset(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, core.Invalidf("deleting all users requires confirmation")
	}

	ctx, span := core.StartSpan(ctx, "user.Reset")
	n, err := s.repo.DeleteAll(ctx)
	core.EndSpan(span, err)
	return n, err
}

// Import reads a CSV with name, type and pass columns and inserts one user
// per row in a single transaction. Types are stored as given.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := tabular.Read(r, ImportColumns...)
	if err != nil {
		return 0, err
	}

	users := make([]*User, 0, len(records))
	for i, rec := range records {
		name := auth.NormalizeName(rec["name"])
		if name == "" {
			return 0, core.Invalidf("row %d: name is required", i+1)
		}
		u, err := s.newUser(name, rec["type"], rec["pass"])
		if err != nil {
			return 0, err
		}
		users = append(users, u)
	}

	ctx, span := core.StartSpan(ctx, "user.Import")
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		for _, u := range users {
			if err := repo.Create(ctx, u); err != nil {
				return err
			}
		}
		return nil
	})
	core.EndSpan(span, err)
	if err != nil {
		return 0, fmt.Errorf("import users: %w", err)
	}

	return len(users), nil
}

// DeleteGuestIn removes the oldest Guest account named name, at most one
// row, on an open transaction.
func (s *Service) DeleteGuestIn(
	ctx context.Context,
	tx core.DBTX,
	name string,
) (int64, error) {
	return NewRepository(tx).DeleteGuest(ctx, name)
}
