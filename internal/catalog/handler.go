// AngelaMos | 2026
// handler.go

package catalog

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Get("/catalog/options", h.GetOptions)
	})

	r.Route("/models", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(auth.Guard(auth.PageModels))

		r.Get("/", h.ListModels)
		r.Post("/", h.AddModel)
		r.Delete("/", h.DeleteModel)
		r.Delete("/all", h.ResetModels)
		r.Post("/import", h.ImportModels)
		r.Get("/import/template", h.ImportTemplate)
	})
}

func (h *Handler) GetOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := Selection{
		Brand:       q.Get("brand"),
		CustomBrand: q.Get("custom_brand"),
		Model:       q.Get("model"),
		Color:       q.Get("color"),
	}

	opts, err := h.service.Options(r.Context(), sel)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, opts)
}

func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ModelListResponse{Models: models})
}

func (h *Handler) AddModel(w http.ResponseWriter, r *http.Request) {
	var req AddModelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Add(r.Context(), req)
	if err != nil {
		core.Fail(w, err, "model")
		return
	}

	core.Created(w, m)
}

func (h *Handler) DeleteModel(w http.ResponseWriter, r *http.Request) {
	var t Tuple
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(t); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	n, err := h.service.Delete(r.Context(), t)
	if err != nil {
		core.Fail(w, err, "model")
		return
	}

	core.OK(w, CountResponse{Count: n})
}

func (h *Handler) ResetModels(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	n, err := h.service.Reset(r.Context(), confirm)
	if err != nil {
		core.Fail(w, err, "model")
		return
	}

	core.OK(w, CountResponse{Count: n})
}

func (h *Handler) ImportModels(w http.ResponseWriter, r *http.Request) {
	body, err := tabular.FromRequest(w, r)
	if err != nil {
		core.Fail(w, err, "upload")
		return
	}
	defer body.Close() //nolint:errcheck

	n, err := h.service.Import(r.Context(), body)
	if err != nil {
		core.Fail(w, err, "model")
		return
	}

	core.Created(w, CountResponse{Count: int64(n)})
}

func (h *Handler) ImportTemplate(w http.ResponseWriter, _ *http.Request) {
	if err := tabular.ServeTemplate(w, "models.csv", ImportColumns); err != nil {
		core.InternalServerError(w, err)
	}
}
