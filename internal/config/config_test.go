// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:orders.db")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	c, err := load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Database.Driver != "pgx" {
		t.Errorf("driver = %q, want pgx", c.Database.Driver)
	}
	if c.Auth.PasswordScheme != PasswordSchemePlain {
		t.Errorf("password scheme = %q, want plain", c.Auth.PasswordScheme)
	}
	if c.Auth.GuestPassword != "1234" {
		t.Errorf("guest password = %q, want 1234", c.Auth.GuestPassword)
	}
	if c.Orders.RequireKnownDistributor {
		t.Errorf("require_known_distributor should default to false")
	}
	if c.Orders.TransitionPolicy != TransitionPolicyAllowAll {
		t.Errorf("transition policy = %q, want allow_all", c.Orders.TransitionPolicy)
	}
	if c.JWT.AccessTokenExpire != 12*time.Hour {
		t.Errorf("access token expire = %v, want 12h", c.JWT.AccessTokenExpire)
	}
	if got := c.Server.Address(); got != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", got)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AUTH_PASSWORD_SCHEME", "argon2id")
	t.Setenv("ORDERS_TRANSITION_POLICY", "forward_only")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "database:\n  driver: sqlite\nserver:\n  port: 9090\nauth:\n  password_scheme: plain\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Database.Driver != "sqlite" {
		t.Errorf("driver = %q, want sqlite", c.Database.Driver)
	}
	if c.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", c.Server.Port)
	}
	if c.Auth.PasswordScheme != PasswordSchemeArgon2id {
		t.Errorf("env should override file, got %q", c.Auth.PasswordScheme)
	}
	if c.Orders.TransitionPolicy != TransitionPolicyForwardOnly {
		t.Errorf("transition policy = %q, want forward_only", c.Orders.TransitionPolicy)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing database url",
			env:     map[string]string{"REDIS_URL": "redis://localhost:6379"},
			wantErr: "DATABASE_URL",
		},
		{
			name: "unknown driver",
			env: map[string]string{
				"DATABASE_URL":    "x",
				"REDIS_URL":       "redis://localhost:6379",
				"DATABASE_DRIVER": "mysql",
			},
			wantErr: "database.driver",
		},
		{
			name: "unknown password scheme",
			env: map[string]string{
				"DATABASE_URL":         "x",
				"REDIS_URL":            "redis://localhost:6379",
				"AUTH_PASSWORD_SCHEME": "md5",
			},
			wantErr: "password_scheme",
		},
		{
			name: "unknown transition policy",
			env: map[string]string{
				"DATABASE_URL":             "x",
				"REDIS_URL":                "redis://localhost:6379",
				"ORDERS_TRANSITION_POLICY": "strict",
			},
			wantErr: "transition_policy",
		},
		{
			name: "generated keys in production",
			env: map[string]string{
				"DATABASE_URL":      "x",
				"REDIS_URL":         "redis://localhost:6379",
				"ENVIRONMENT":       "production",
				"JWT_GENERATE_KEYS": "true",
			},
			wantErr: "generate_keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "")
			t.Setenv("REDIS_URL", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := load("")
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}
