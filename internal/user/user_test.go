// AngelaMos | 2026
// user_test.go

package user

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/core"
	"github.com/carterperez-dev/orderdesk/internal/middleware"
)

func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := sqlx.Open(core.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	if err := core.Migrate(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestDB(t), auth.PlainVerifier{})
}

func TestCreateNormalizesAndValidates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Create(ctx, CreateUserRequest{Name: "  alice ", Type: auth.RoleStandard, Password: "pw"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if u.ID == 0 || u.Name != "ALICE" {
		t.Fatalf("user = %+v", u)
	}

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"unknown role", CreateUserRequest{Name: "bob", Type: "Root", Password: "pw"}},
		{"blank name", CreateUserRequest{Name: "   ", Type: auth.RoleGuest, Password: "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tt.req); !errors.Is(err, core.ErrInvalidInput) {
				t.Fatalf("error = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestDuplicateNamesAllowed(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, role := range []string{auth.RoleStandard, auth.RoleGuest} {
		if _, err := svc.Create(ctx, CreateUserRequest{Name: "dup", Type: role, Password: "pw"}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	infos, err := svc.FindByName(ctx, "DUP")
	if err != nil {
		t.Fatalf("FindByName() error = %v", err)
	}
	if len(infos) != 2 || infos[0].Role != auth.RoleStandard || infos[1].Role != auth.RoleGuest {
		t.Fatalf("infos = %+v", infos)
	}
}

func TestDeleteMissingUser(t *testing.T) {
	svc := newTestService(t)
	if err := svc.Delete(context.Background(), 42); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteGuestInRemovesOldestOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	var ids []int64
	for _, role := range []string{auth.RoleGuest, auth.RoleStandard, auth.RoleGuest} {
		u, err := svc.Create(ctx, CreateUserRequest{Name: "kiosk", Type: role, Password: "pw"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		ids = append(ids, u.ID)
	}

	n, err := svc.DeleteGuestIn(ctx, svc.db, "KIOSK")
	if err != nil || n != 1 {
		t.Fatalf("DeleteGuestIn() = %d, %v; want 1, nil", n, err)
	}

	users, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(users) != 2 || users[0].ID != ids[1] || users[1].ID != ids[2] {
		t.Fatalf("users = %+v", users)
	}

	if n, err := svc.DeleteGuestIn(ctx, svc.db, "NOBODY"); err != nil || n != 0 {
		t.Fatalf("DeleteGuestIn(missing) = %d, %v; want 0, nil", n, err)
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateUserRequest{Name: "a", Type: auth.RoleAdmin, Password: "pw"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Reset(ctx, false); !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("unconfirmed reset error = %v", err)
	}

	n, err := svc.Reset(ctx, true)
	if err != nil || n != 1 {
		t.Fatalf("Reset() = %d, %v", n, err)
	}

	users, err := svc.List(ctx)
	if err != nil || len(users) != 0 {
		t.Fatalf("List() = %v, %v", users, err)
	}
}

func TestImport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	csv := "Name, Type ,PASS\nalice,Admin,pw\nbob,Legacy Role,1234\n"
	n, err := svc.Import(ctx, strings.NewReader(csv))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 2 {
		t.Fatalf("imported %d, want 2", n)
	}

	infos, err := svc.FindByName(ctx, "BOB")
	if err != nil || len(infos) != 1 || infos[0].Role != "Legacy Role" {
		t.Fatalf("FindByName(BOB) = %+v, %v", infos, err)
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Import(ctx, strings.NewReader("name,type,pass\nalice,Admin,pw\n ,Guest,x\n"))
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}

	_, err = svc.Import(ctx, strings.NewReader("name,type\nalice,Admin\n"))
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("missing column error = %v", err)
	}

	users, err := svc.List(ctx)
	if err != nil || len(users) != 0 {
		t.Fatalf("users after failed imports = %v, %v", users, err)
	}
}

func TestHandlerPageGating(t *testing.T) {
	svc := newTestService(t)
	h := NewHandler(svc)

	identity := func(role string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := middleware.WithIdentity(req.Context(), &middleware.AccessTokenClaims{
					Name: "TESTER",
					Role: role,
				})
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		}
	}

	tests := []struct {
		role   string
		method string
		body   string
		want   int
	}{
		{auth.RoleAdmin, http.MethodPost, `{"name":"x","type":"Guest","password":"p"}`, http.StatusCreated},
		{auth.RoleStandard, http.MethodPost, `{"name":"x","type":"Guest","password":"p"}`, http.StatusForbidden},
		{auth.RoleAdmin, http.MethodPost, `{"name":"x","type":"Guest"}`, http.StatusBadRequest},
		{auth.RoleGuest, http.MethodGet, "", http.StatusForbidden},
		{auth.RoleAdmin, http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method, func(t *testing.T) {
			router := chi.NewRouter()
			h.RegisterRoutes(router, identity(tt.role))

			req := httptest.NewRequest(tt.method, "/admin/users/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestHandlerResetNeedsConfirm(t *testing.T) {
	h := NewHandler(newTestService(t))
	router := chi.NewRouter()
	h.RegisterRoutes(router, func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := middleware.WithIdentity(req.Context(), &middleware.AccessTokenClaims{Name: "A", Role: auth.RoleAdmin})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/users/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/admin/users/?confirm=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || !resp.Success {
		t.Fatalf("response = %+v, %v", resp, err)
	}
}
