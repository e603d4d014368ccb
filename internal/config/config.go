package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App       AppConfig
	Postgres  PostgresConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Session   SessionConfig
	Lookup    LookupConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32

	// ApplicationName tags portal connections in pg_stat_activity.
	ApplicationName string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines identity-provider parameters for admin and staff accounts.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// SessionConfig defines department portal sessions.
type SessionConfig struct {
	Secret   string
	TTLHours int
}

// LookupConfig defines public lookup capability tokens.
type LookupConfig struct {
	TokenSecret   string
	TokenTTLHours int
	MaxResults    int
}

// RateLimitConfig bounds password login attempts per client.
type RateLimitConfig struct {
	LoginLimit         int
	LoginWindowSeconds int
}

// ConfigurationError reports a setting the service cannot start without.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "hoa-portal"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("POSTGRES_DSN"),
			MaxConns:        int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:        int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:   getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec:  int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
			ApplicationName: getEnv("POSTGRES_APPLICATION_NAME", "hoa-portal-access"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             os.Getenv("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Session: SessionConfig{
			Secret:   os.Getenv("DEPT_SESSION_SECRET"),
			TTLHours: getEnvAsInt("DEPT_SESSION_TTL_HOURS", 24*7),
		},
		Lookup: LookupConfig{
			TokenSecret:   os.Getenv("LOOKUP_TOKEN_SECRET"),
			TokenTTLHours: getEnvAsInt("LOOKUP_TOKEN_TTL_HOURS", 24),
			MaxResults:    getEnvAsInt("LOOKUP_MAX_RESULTS", 10),
		},
		RateLimit: RateLimitConfig{
			LoginLimit:         getEnvAsInt("LOGIN_RATE_LIMIT", 10),
			LoginWindowSeconds: getEnvAsInt("LOGIN_RATE_WINDOW_SECONDS", 300),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every token family has its own non-empty secret.
func (c *Config) Validate() error {
	secrets := []struct {
		key   string
		value string
	}{
		{"AUTH_JWT_SECRET", c.Auth.JWTSecret},
		{"DEPT_SESSION_SECRET", c.Session.Secret},
		{"LOOKUP_TOKEN_SECRET", c.Lookup.TokenSecret},
	}

	seen := make(map[string]string, len(secrets))
	for _, s := range secrets {
		if strings.TrimSpace(s.value) == "" {
			return &ConfigurationError{Key: s.key, Reason: "is required"}
		}
		if other, ok := seen[s.value]; ok {
			return &ConfigurationError{Key: s.key, Reason: "must differ from " + other}
		}
		seen[s.value] = s.key
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// IsProduction reports whether cookies must be marked Secure.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the department session lifetime.
func (s SessionConfig) TTL() time.Duration {
	if s.TTLHours <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(s.TTLHours) * time.Hour
}

// TokenTTL returns the capability token lifetime.
func (l LookupConfig) TokenTTL() time.Duration {
	if l.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(l.TokenTTLHours) * time.Hour
}

// LoginWindow returns the fixed window used for login attempts.
func (r RateLimitConfig) LoginWindow() time.Duration {
	if r.LoginWindowSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.LoginWindowSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
