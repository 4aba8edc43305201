// AngelaMos | 2026
// handler.go

package order

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/middleware"
	"github.com/carterperez-dev/orderdesk/internal/tabular"
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

// RegisterRoutes mounts /orders. lookups, when set, adds the location
// cascade to the create-order group.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	lookups func(chi.Router),
) {
	r.Route("/orders", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/statuses", h.ListStatuses)

		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(auth.PageCreateOrder))
			if lookups != nil {
				lookups(r)
			}
			r.Post("/", h.CreateOrder)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(auth.PageUpdateOrder))
			r.Get("/", h.ListOrders)
			r.Get("/distributors", h.ListDistributors)
			r.Get("/export", h.ExportOrders)
			r.Put("/bulk", h.BulkUpdate)
			r.Get("/{orderID}", h.GetOrder)
			r.Put("/{orderID}", h.UpdateOrder)
		})
	})
}

func (h *Handler) ListStatuses(w http.ResponseWriter, _ *http.Request) {
	core.OK(w, StatusesResponse{Statuses: Statuses})
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.Create(r.Context(), middleware.GetUserName(r.Context()), req)
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	core.Created(w, o)
}

func filterFromQuery(r *http.Request) FilterRequest {
	q := r.URL.Query()
	return FilterRequest{
		Status: q.Get("status"),
		From:   q.Get("from"),
		To:     q.Get("to"),
		Dist:   q.Get("dist"),
	}
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.View(r.Context(), filterFromQuery(r))
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	core.OK(w, OrderListResponse{Orders: orders, Count: len(orders)})
}

func (h *Handler) ListDistributors(w http.ResponseWriter, r *http.Request) {
	view := filterFromQuery(r)
	view.Dist = ""

	orders, err := h.service.View(r.Context(), view)
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	core.OK(w, ValuesResponse{Values: Distributors(orders)})
}

func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	view := filterFromQuery(r)

	orders, err := h.service.View(r.Context(), view)
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	filename := fmt.Sprintf("orders-%s.csv",
		strings.ToLower(strings.ReplaceAll(view.Status, " ", "-")))
	if err := tabular.Serve(w, filename, ExportColumns, exportRows(orders)); err != nil {
		slog.ErrorContext(r.Context(), "order export interrupted", "error", err)
	}
}

func parseOrderID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		core.BadRequest(w, "invalid order id")
		return
	}

	o, err := h.service.Get(r.Context(), id)
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	core.OK(w, o)
}

func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		core.BadRequest(w, "invalid order id")
		return
	}

	var req UpdateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	o, err := h.service.UpdateSingle(r.Context(), middleware.GetUserName(r.Context()), id, req)
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	core.OK(w, o)
}

func (h *Handler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	actor := middleware.GetUserName(r.Context())

	var (
		res *BulkResult
		err error
	)
	switch {
	case len(req.IDs) > 0 && req.Filter != nil:
		core.BadRequest(w, "send either ids or filter, not both")
		return
	case req.Filter != nil:
		res, err = h.service.UpdateView(r.Context(), actor, *req.Filter, req.UpdateOrderRequest)
	default:
		res, err = h.service.UpdateBulk(r.Context(), actor, req.IDs, req.UpdateOrderRequest)
	}
	if err != nil {
		core.Fail(w, err, "order")
		return
	}

	core.OK(w, res)
}
