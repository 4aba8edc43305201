// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/orderdesk/internal/auth"
	"github.com/carterperez-dev/orderdesk/internal/middleware"
)

func withRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithIdentity(r.Context(), &middleware.AccessTokenClaims{
				Name: "OPS",
				Role: role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newTestHandler() *Handler {
	return NewHandler(HandlerConfig{
		DBStats: func() sql.DBStats { return sql.DBStats{MaxOpenConnections: 1} },
		DBPing:  func(context.Context) error { return nil },
		RedisPing: func(context.Context) error {
			return errors.New("connection refused")
		},
		CountRows: func(context.Context) (map[string]int64, error) {
			return map[string]int64{"users": 2, "po": 7}, nil
		},
	})
}

func TestStatsRequireAdmin(t *testing.T) {
	tests := []struct {
		role string
		want int
	}{
		{auth.RoleAdmin, http.StatusOK},
		{auth.RoleStandard, http.StatusForbidden},
		{auth.RoleBackOffice, http.StatusForbidden},
		{auth.RoleGuest, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			router := chi.NewRouter()
			newTestHandler().RegisterRoutes(router, withRole(tt.role))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/", nil))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestSystemStats(t *testing.T) {
	router := chi.NewRouter()
	newTestHandler().RegisterRoutes(router, withRole(auth.RoleAdmin))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/", nil))

	var resp struct {
		Data SystemStatsResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := resp.Data
	if !got.Database.Healthy || got.Database.Stats == nil || got.Database.Stats.MaxOpenConnections != 1 {
		t.Fatalf("database = %+v", got.Database)
	}
	if got.Redis.Healthy || got.Redis.Stats != nil {
		t.Fatalf("redis = %+v, want unhealthy without stats", got.Redis)
	}
	if got.Tables["po"] != 7 || got.Tables["users"] != 2 {
		t.Fatalf("tables = %v", got.Tables)
	}
	if got.Runtime.GoVersion == "" {
		t.Fatalf("runtime stats missing")
	}
}

func TestTableCountsError(t *testing.T) {
	h := NewHandler(HandlerConfig{
		CountRows: func(context.Context) (map[string]int64, error) {
			return nil, errors.New("boom")
		},
	})
	router := chi.NewRouter()
	h.RegisterRoutes(router, withRole(auth.RoleAdmin))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/tables", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}
