// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/tabular"
)

// ImportColumns are the columns a model import file must carry.
var ImportColumns = []string{"brand", "model", "color", "specs"}

type Service struct {
	db   *sqlx.DB
	repo Repository
}

func NewService(db *sqlx.DB) *Service {
	return &Service{db: db, repo: NewRepository(db)}
}

func (s *Service) List(ctx context.Context) ([]Model, error) {
	return s.repo.List(ctx)
}

// Options loads the catalog and resolves sel against it.
func (s *Service) Options(ctx context.Context, sel Selection) (Options, error) {
	models, err := s.repo.List(ctx)
	if err != nil {
		return Options{}, err
	}
	return Resolve(models, sel), nil
}

// Add stores a new model. The custom brand wins over the picked brand.
func (s *Service) Add(ctx context.Context, req AddModelRequest) (*Model, error) {
	m := &Model{
		Brand: strings.TrimSpace(Selection{
			Brand:       req.Brand,
			CustomBrand: req.CustomBrand,
		}.EffectiveBrand()),
		Model: strings.TrimSpace(req.Model),
		Color: strings.TrimSpace(req.Color),
		Specs: strings.TrimSpace(req.Specs),
	}
	if err := validateModel(m); err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "catalog.Add")
	err := s.repo.Create(ctx, m)
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes every row equal to t and reports how many went.
func (s *Service) Delete(ctx context.Context, t Tuple) (int64, error) {
	n, err := s.repo.DeleteTuple(ctx, t)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("delete model: %w", core.ErrNotFound)
	}
	return n, nil
}

func (s *Service) Reset(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, core.Invalidf("deleting all models requires confirmation")
	}
	return s.repo.DeleteAll(ctx)
}

// Import inserts one model per CSV row in a single transaction.
func (s *Service) Import(ctx context.Context, r io.Reader) (int, error) {
	records, err := tabular.Read(r, ImportColumns...)
	if err != nil {
		return 0, err
	}

	models := make([]*Model, 0, len(records))
	for i, rec := range records {
		m := &Model{
			Brand: strings.TrimSpace(rec["brand"]),
			Model: strings.TrimSpace(rec["model"]),
			Color: strings.TrimSpace(rec["color"]),
			Specs: strings.TrimSpace(rec["specs"]),
		}
		if err := validateModel(m); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
		models = append(models, m)
	}

	ctx, span := core.StartSpan(ctx, "catalog.Import")
	err = core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)
		for _, m := range models {
			if err := repo.Create(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	core.EndSpan(span, err)
	if err != nil {
		return 0, fmt.Errorf("import models: %w", err)
	}

	return len(models), nil
}

func validateModel(m *Model) error {
	switch {
	case m.Brand == "":
		return core.Invalidf("brand is required")
	case m.Model == "":
		return core.Invalidf("model is required")
	case m.Color == "":
		return core.Invalidf("color is required")
	case m.Specs == "":
		return core.Invalidf("specs is required")
	}
	return nil
}
