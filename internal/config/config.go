// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Auth      AuthConfig      `koanf:"auth"`
	Orders    OrdersConfig    `koanf:"orders"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	URL             string        `koanf:"url"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	KeyPrefix    string `koanf:"key_prefix"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

type JWTConfig struct {
	PrivateKeyPath    string        `koanf:"private_key_path"`
	PublicKeyPath     string        `koanf:"public_key_path"`
	GenerateKeys      bool          `koanf:"generate_keys"`
	AccessTokenExpire time.Duration `koanf:"access_token_expire"`
	Issuer            string        `koanf:"issuer"`
	Audience          string        `koanf:"audience"`
}

// AuthConfig controls the access gate. PasswordScheme selects how stored
// passwords are compared: "plain" compares verbatim, "argon2id" hashes.
type AuthConfig struct {
	PasswordScheme string `koanf:"password_scheme"`
	GuestPassword  string `koanf:"guest_password"`
}

// OrdersConfig tunes the order ledger. TransitionPolicy is "allow_all",
// which lets any status follow any other, or "forward_only".
type OrdersConfig struct {
	RequireKnownDistributor bool   `koanf:"require_known_distributor"`
	TransitionPolicy        string `koanf:"transition_policy"`
}

type RateLimitConfig struct {
	Requests      int           `koanf:"requests"`
	Window        time.Duration `koanf:"window"`
	Burst         int           `koanf:"burst"`
	LoginRequests int           `koanf:"login_requests"`
	LoginBurst    int           `koanf:"login_burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

const (
	PasswordSchemePlain    = "plain"
	PasswordSchemeArgon2id = "argon2id"
)

const (
	TransitionPolicyAllowAll    = "allow_all"
	TransitionPolicyForwardOnly = "forward_only"
)

var (
	cfg     *Config
	once    sync.Once
	loadErr error
)

func Load(configPath string) (*Config, error) {
	once.Do(func() {
		cfg, loadErr = load(configPath)
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	c := &Config{}
	if err := k.Unmarshal("", c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validate(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "orderdesk",
		"app.version":     "1.0.0",
		"app.environment": "development",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.driver":             "pgx",
		"database.auto_migrate":       true,
		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.key_prefix":     "orderdesk",
		"redis.pool_size":      10,
		"redis.min_idle_conns": 2,

		"jwt.access_token_expire": "12h",
		"jwt.issuer":              "orderdesk",
		"jwt.audience":            "orderdesk-ui",
		"jwt.private_key_path":    "keys/private.pem",
		"jwt.public_key_path":     "keys/public.pem",
		"jwt.generate_keys":       false,

		"auth.password_scheme": PasswordSchemePlain,
		"auth.guest_password":  "1234",

		"orders.require_known_distributor": false,
		"orders.transition_policy":         TransitionPolicyAllowAll,

		"rate_limit.requests":       120,
		"rate_limit.window":         "1m",
		"rate_limit.burst":          30,
		"rate_limit.login_requests": 10,
		"rate_limit.login_burst":    5,

		"cors.allowed_origins": []string{"http://localhost:8501"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "orderdesk",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_DRIVER":                  "database.driver",
	"DATABASE_URL":                     "database.url",
	"DATABASE_AUTO_MIGRATE":            "database.auto_migrate",
	"REDIS_URL":                        "redis.url",
	"REDIS_KEY_PREFIX":                 "redis.key_prefix",
	"ENVIRONMENT":                      "app.environment",
	"HOST":                             "server.host",
	"PORT":                             "server.port",
	"LOG_LEVEL":                        "log.level",
	"LOG_FORMAT":                       "log.format",
	"JWT_PRIVATE_KEY_PATH":             "jwt.private_key_path",
	"JWT_PUBLIC_KEY_PATH":              "jwt.public_key_path",
	"JWT_GENERATE_KEYS":                "jwt.generate_keys",
	"JWT_ACCESS_TOKEN_EXPIRE":          "jwt.access_token_expire",
	"JWT_ISSUER":                       "jwt.issuer",
	"JWT_AUDIENCE":                     "jwt.audience",
	"AUTH_PASSWORD_SCHEME":             "auth.password_scheme",
	"AUTH_GUEST_PASSWORD":              "auth.guest_password",
	"ORDERS_REQUIRE_KNOWN_DISTRIBUTOR": "orders.require_known_distributor",
	"ORDERS_TRANSITION_POLICY":         "orders.transition_policy",
	"RATE_LIMIT_REQUESTS":              "rate_limit.requests",
	"RATE_LIMIT_WINDOW":                "rate_limit.window",
	"RATE_LIMIT_BURST":                 "rate_limit.burst",
	"RATE_LIMIT_LOGIN_REQUESTS":        "rate_limit.login_requests",
	"RATE_LIMIT_LOGIN_BURST":           "rate_limit.login_burst",
	"OTEL_ENDPOINT":                    "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT":      "otel.endpoint",
	"OTEL_SERVICE_NAME":                "otel.service_name",
	"OTEL_ENABLED":                     "otel.enabled",
	"OTEL_INSECURE":                    "otel.insecure",
	"OTEL_SAMPLE_RATE":                 "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.Driver != "pgx" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver must be pgx or sqlite, got %q", c.Database.Driver)
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.JWT.PrivateKeyPath == "" {
		return fmt.Errorf("JWT_PRIVATE_KEY_PATH is required")
	}

	if c.JWT.PublicKeyPath == "" {
		return fmt.Errorf("JWT_PUBLIC_KEY_PATH is required")
	}

	if c.JWT.AccessTokenExpire <= 0 {
		return fmt.Errorf("jwt.access_token_expire must be positive")
	}

	if c.Auth.PasswordScheme != PasswordSchemePlain &&
		c.Auth.PasswordScheme != PasswordSchemeArgon2id {
		return fmt.Errorf(
			"auth.password_scheme must be %s or %s, got %q",
			PasswordSchemePlain,
			PasswordSchemeArgon2id,
			c.Auth.PasswordScheme,
		)
	}

	if c.Orders.TransitionPolicy != TransitionPolicyAllowAll &&
		c.Orders.TransitionPolicy != TransitionPolicyForwardOnly {
		return fmt.Errorf(
			"orders.transition_policy must be %s or %s, got %q",
			TransitionPolicyAllowAll,
			TransitionPolicyForwardOnly,
			c.Orders.TransitionPolicy,
		)
	}

	if c.Auth.GuestPassword == "" {
		return fmt.Errorf("auth.guest_password must not be empty")
	}

	if c.CORS.AllowCredentials && slices.Contains(c.CORS.AllowedOrigins, "*") {
		return fmt.Errorf(
			"CORS wildcard '*' cannot be used with AllowCredentials",
		)
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
		if c.JWT.GenerateKeys {
			return fmt.Errorf("jwt.generate_keys must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
