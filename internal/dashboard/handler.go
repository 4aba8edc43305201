// AngelaMos | 2026
// handler.go

package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/catalog"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/distributor"
	"github.com/carterperez-dev/orderdesk/internal/user"
)

type UserLister interface {
	List(ctx context.Context) ([]user.User, error)
}

type DistributorLister interface {
	List(ctx context.Context) ([]distributor.Distributor, error)
}

type ModelLister interface {
	List(ctx context.Context) ([]catalog.Model, error)
}

// Response is the read-only landing view every role can reach.
type Response struct {
	Users        []user.UserResponse       `json:"users"`
	Distributors []distributor.Distributor `json:"distributors"`
	Models       []catalog.Model           `json:"models"`
}

type Handler struct {
	users        UserLister
	distributors DistributorLister
	models       ModelLister
}

func NewHandler(
	users UserLister,
	distributors DistributorLister,
	models ModelLister,
) *Handler {
	return &Handler{
		users:        users,
		distributors: distributors,
		models:       models,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(auth.Guard(auth.PageDashboard))

		r.Get("/", h.GetDashboard)
	})
}

// Load reads the three tables concurrently.
func (h *Handler) Load(ctx context.Context) (*Response, error) {
	var (
		users []user.User
		dists []distributor.Distributor
		items []catalog.Model
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = h.users.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		dists, err = h.distributors.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		items, err = h.models.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Response{
		Users:        user.ToUserResponseList(users),
		Distributors: dists,
		Models:       items,
	}, nil
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Load(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, resp)
}
