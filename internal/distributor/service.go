// AngelaMos | 2026
// service.go

package distributor

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/cascade"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/user"
)

// Service manages distributors together with the Guest login each one
// owns.
type Service struct {
	db            *sqlx.DB
	repo          Repository
	users         *user.Service
	guestPassword string
}

func NewService(db *sqlx.DB, users *user.Service, guestPassword string) *Service {
	return &Service{
		db:            db,
		repo:          NewRepository(db),
		users:         users,
		guestPassword: guestPassword,
	}
}

func titleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

func normalize(actor string, req CreateDistributorRequest) *Distributor {
	return &Distributor{
		Name:     auth.NormalizeName(req.Name),
		Address:  titleCase(req.Address),
		Location: titleCase(req.Location),
		Contact:  strings.TrimSpace(req.Contact),
		Email:    strings.TrimSpace(req.Email),
		AddedBy:  actor,
	}
}

// Create stores the distributor and its Guest user in one transaction.
func (s *Service) Create(
	ctx context.Context,
	actor string,
	req CreateDistributorRequest,
) (*Distributor, error) {
	d := normalize(actor, req)
	if d.Name == "" {
		return nil, core.Invalidf("name is required")
	}
	if d.Location == "" {
		return nil, core.Invalidf("location is required")
	}

	ctx, span := core.StartSpan(ctx, "distributor.Create")
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := NewRepository(tx).Create(ctx, d); err != nil {
			return err
		}
		if _, err := s.users.CreateIn(ctx, tx, d.Name, auth.RoleGuest, s.guestPassword); err != nil {
			return fmt.Errorf("provision guest user: %w", err)
		}
		return nil
	})
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return d, nil
}

// Delete removes the distributor and one Guest user of the same name in one
// transaction. Other users are untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := core.StartSpan(ctx, "distributor.Delete")
	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		d, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
		if _, err := s.users.DeleteGuestIn(ctx, tx, d.Name); err != nil {
			return fmt.Errorf("remove guest user: %w", err)
		}
		return nil
	})
	core.EndSpan(span, err)
	return err
}

func (s *Service) List(ctx context.Context) ([]Distributor, error) {
	return s.repo.List(ctx)
}

// Locations lists distinct locations in first-appearance order.
func (s *Service) Locations(ctx context.Context) ([]string, error) {
	dists, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return cascade.Distinct(dists, locationOf), nil
}

// NamesAt lists the distributor names at location. Matching is exact.
func (s *Service) NamesAt(ctx context.Context, location string) ([]string, error) {
	dists, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return cascade.Distinct(cascade.Where(dists, locationOf, location), nameOf), nil
}

// Exists reports whether a distributor with exactly this name is stored.
func (s *Service) Exists(ctx context.Context, name string) (bool, error) {
	return s.repo.ExistsByName(ctx, name)
}
