// AngelaMos | 2026
// handler.go

package distributor

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts distributor management. The location cascade used
// by the order form is mounted by RegisterLookupRoutes.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/distributors", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(auth.Guard(auth.PageDistributors))

		r.Get("/", h.ListDistributors)
		r.Post("/", h.CreateDistributor)
		r.Delete("/{distID}", h.DeleteDistributor)
	})
}

// RegisterLookupRoutes mounts the location → distributor cascade on r,
// which the caller has already authenticated and gated.
func (h *Handler) RegisterLookupRoutes(r chi.Router) {
	r.Get("/locations", h.ListLocations)
	r.Get("/locations/{location}/distributors", h.ListNamesAt)
}

func (h *Handler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	dists, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, DistributorListResponse{Distributors: dists})
}

func (h *Handler) CreateDistributor(w http.ResponseWriter, r *http.Request) {
	var req CreateDistributorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	d, err := h.service.Create(r.Context(), middleware.GetUserName(r.Context()), req)
	if err != nil {
		core.Fail(w, err, "distributor")
		return
	}

	core.Created(w, d)
}

func (h *Handler) DeleteDistributor(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "distID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "invalid distributor id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.Fail(w, err, "distributor")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.Locations(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ValuesResponse{Values: locations})
}

func (h *Handler) ListNamesAt(w http.ResponseWriter, r *http.Request) {
	location, err := url.PathUnescape(chi.URLParam(r, "location"))
	if err != nil {
		core.BadRequest(w, "invalid location")
		return
	}

	names, err := h.service.NamesAt(r.Context(), location)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ValuesResponse{Values: names})
}
