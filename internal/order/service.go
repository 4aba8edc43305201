// AngelaMos | 2026
// service.go

package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/orderdesk/internal/cascade"
	"github.com/carterperez-dev/orderdesk/internal/core"
)

// DistributorChecker confirms a distributor name is on record.
type DistributorChecker interface {
	Exists(ctx context.Context, name string) (bool, error)
}

type Service struct {
	db      *sqlx.DB
	repo    Repository
	policy  TransitionPolicy
	now     func() time.Time
	checker DistributorChecker
}

type Option func(*Service)

func WithPolicy(p TransitionPolicy) Option {
	return func(s *Service) { s.policy = p }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithDistributorCheck makes Create reject distributors the checker does
// not know.
func WithDistributorCheck(c DistributorChecker) Option {
	return func(s *Service) { s.checker = c }
}

func NewService(db *sqlx.DB, opts ...Option) *Service {
	s := &Service{
		db:     db,
		repo:   NewRepository(db),
		policy: AllowAll,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create records a new order in status New, stamped with the current date
// and time. Repeated calls always create separate rows.
func (s *Service) Create(
	ctx context.Context,
	actor string,
	req CreateOrderRequest,
) (*Order, error) {
	if strings.TrimSpace(actor) == "" {
		return nil, core.Invalidf("actor is required")
	}

	o := &Order{
		Dist:     strings.TrimSpace(req.Dist),
		Location: strings.TrimSpace(req.Location),
		Model:    strings.TrimSpace(req.Model),
		Color:    strings.TrimSpace(req.Color),
		Spec:     strings.TrimSpace(req.Spec),
		Quantity: req.Quantity,
		Status:   StatusNew,
		AddedBy:  actor,
		UpdateBy: actor,
	}
	if err := validateNew(o); err != nil {
		return nil, err
	}

	if s.checker != nil {
		ok, err := s.checker.Exists(ctx, o.Dist)
		if err != nil {
			return nil, fmt.Errorf("create order: %w", err)
		}
		if !ok {
			return nil, core.Invalidf("unknown distributor %q", o.Dist)
		}
	}

	now := s.now()
	o.Date = now.Format(DateLayout)
	o.Time = now.Format(TimeLayout)

	ctx, span := core.StartSpan(ctx, "order.Create",
		attribute.String("order.dist", o.Dist),
		attribute.Int("order.quantity", o.Quantity),
	)
	err := s.repo.Create(ctx, o)
	core.EndSpan(span, err)
	if err != nil {
		return nil, err
	}

	return o, nil
}

func validateNew(o *Order) error {
	switch {
	case o.Dist == "":
		return core.Invalidf("distributor is required")
	case o.Location == "":
		return core.Invalidf("location is required")
	case o.Model == "":
		return core.Invalidf("model is required")
	case o.Color == "":
		return core.Invalidf("color is required")
	case o.Spec == "":
		return core.Invalidf("spec is required")
	case o.Quantity < 1:
		return core.Invalidf("quantity must be at least 1")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

// FilterByStatus returns the orders in status whose date lies in r.
func (s *Service) FilterByStatus(
	ctx context.Context,
	status Status,
	r DateRange,
) ([]Order, error) {
	if !status.Valid() {
		return nil, errUnknownStatus(string(status))
	}

	orders, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	if r.IsZero() {
		return orders, nil
	}

	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		if r.Contains(o.Date) {
			out = append(out, o)
		}
	}
	return out, nil
}

// FilterByDistributor narrows an already filtered set to one distributor.
func FilterByDistributor(orders []Order, dist string) []Order {
	return cascade.Where(orders, distOf, dist)
}

// Distributors lists the distinct distributors in orders, in first
// appearance order.
func Distributors(orders []Order) []string {
	return cascade.Distinct(orders, distOf)
}

// View resolves a filter request: status, optional date range, optional
// distributor.
func (s *Service) View(ctx context.Context, req FilterRequest) ([]Order, error) {
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	r, err := ParseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}

	orders, err := s.FilterByStatus(ctx, status, r)
	if err != nil {
		return nil, err
	}

	if req.Dist != "" {
		orders = FilterByDistributor(orders, req.Dist)
	}
	return orders, nil
}

// UpdateSingle sets status, remark and update_by on one order. The
// transition is checked against the policy inside the same transaction.
func (s *Service) UpdateSingle(
	ctx context.Context,
	actor string,
	id int64,
	req UpdateOrderRequest,
) (*Order, error) {
	status, remark, err := s.prepareUpdate(actor, req)
	if err != nil {
		return nil, err
	}

	ctx, span := core.StartSpan(ctx, "order.UpdateSingle",
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(status)),
	)
	o, err := s.updateOne(ctx, actor, id, status, remark)
	core.EndSpan(span, err)
	return o, err
}

func (s *Service) prepareUpdate(
	actor string,
	req UpdateOrderRequest,
) (Status, string, error) {
	if strings.TrimSpace(actor) == "" {
		return "", "", core.Invalidf("actor is required")
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		return "", "", err
	}

	return status, strings.TrimSpace(req.Remark), nil
}

func (s *Service) updateOne(
	ctx context.Context,
	actor string,
	id int64,
	status Status,
	remark string,
) (*Order, error) {
	var updated *Order

	err := core.InTx(ctx, s.db, func(tx *sqlx.Tx) error {
		repo := NewRepository(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.policy.Allow(current.Status, status); err != nil {
			return err
		}
		if err := repo.UpdateStatus(ctx, id, status, remark, actor); err != nil {
			return err
		}

		current.Status = status
		current.Remark = remark
		current.UpdateBy = actor
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// BulkFailure records why one id in a bulk update was not applied.
type BulkFailure struct {
	ID       int64  `json:"id"`
	Error    string `json:"error"`
	NotFound bool   `json:"not_found"`
}

type BulkResult struct {
	Requested int           `json:"requested"`
	Updated   int           `json:"updated"`
	Failures  []BulkFailure `json:"failures"`
}

// UpdateBulk applies the same status, remark and update_by to every id.
// Each row is updated in its own transaction; a failing row is reported and
// the rest still run. Duplicate ids are applied once.
func (s *Service) UpdateBulk(
	ctx context.Context,
	actor string,
	ids []int64,
	req UpdateOrderRequest,
) (*BulkResult, error) {
	status, remark, err := s.prepareUpdate(actor, req)
	if err != nil {
		return nil, err
	}

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return nil, core.Invalidf("no orders selected")
	}

	ctx, span := core.StartSpan(ctx, "order.UpdateBulk",
		attribute.Int("order.count", len(unique)),
		attribute.String("order.status", string(status)),
	)
	defer span.End()

	res := &BulkResult{
		Requested: len(unique),
		Failures:  []BulkFailure{},
	}
	for _, id := range unique {
		if _, err := s.updateOne(ctx, actor, id, status, remark); err != nil {
			slog.WarnContext(ctx, "bulk order update failed",
				"order_id", id,
				"error", err,
			)
			res.Failures = append(res.Failures, BulkFailure{
				ID:       id,
				Error:    err.Error(),
				NotFound: errors.Is(err, core.ErrNotFound),
			})
			continue
		}
		res.Updated++
	}

	span.SetAttributes(attribute.Int("order.updated", res.Updated))
	return res, nil
}

// UpdateView applies a bulk update to every order currently in the view.
func (s *Service) UpdateView(
	ctx context.Context,
	actor string,
	view FilterRequest,
	req UpdateOrderRequest,
) (*BulkResult, error) {
	orders, err := s.View(ctx, view)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	return s.UpdateBulk(ctx, actor, ids, req)
}
