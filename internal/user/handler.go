// AngelaMos | 2026
// handler.go

package user

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

// RegisterRoutes mounts user administration under /admin/users. Listing,
// creating and importing belong to the add-user page; deleting belongs to
// the delete-user page.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(auth.PageAddUser))
			r.Get("/", h.ListUsers)
			r.Post("/", h.CreateUser)
			r.Post("/import", h.ImportUsers)
			r.Get("/import/template", h.ImportTemplate)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.Guard(auth.PageDeleteUser))
			r.Delete("/", h.ResetUsers)
			r.Delete("/{userID}", h.DeleteUser)
		})
	})
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, UserListResponse{Users: ToUserResponseList(users)})
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Create(r.Context(), req)
	if err != nil {
		core.Fail(w, err, "user")
		return
	}

	core.Created(w, ToUserResponse(u))
}

func (h *Handler) ImportUsers(w http.ResponseWriter, r *http.Request) {
	body, err := tabular.FromRequest(w, r)
	if err != nil {
		core.Fail(w, err, "upload")
		return
	}
	defer body.Close() //nolint:errcheck

	n, err := h.service.Import(r.Context(), body)
	if err != nil {
		core.Fail(w, err, "user")
		return
	}

	core.Created(w, ImportResponse{Imported: n})
}

func (h *Handler) ImportTemplate(w http.ResponseWriter, _ *http.Request) {
	if err := tabular.ServeTemplate(w, "users.csv", ImportColumns); err != nil {
		core.InternalServerError(w, err)
	}
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "invalid user id")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		core.Fail(w, err, "user")
		return
	}

	core.NoContent(w)
}

func (h *Handler) ResetUsers(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	n, err := h.service.Reset(r.Context(), confirm)
	if err != nil {
		core.Fail(w, err, "user")
		return
	}

	core.OK(w, ResetResponse{Deleted: n})
}
