package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", "identity-secret")
	t.Setenv("DEPT_SESSION_SECRET", "session-secret")
	t.Setenv("LOOKUP_TOKEN_SECRET", "lookup-secret")
}

func TestLoadDefaults(t *testing.T) {
	setSecrets(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL())
	assert.Equal(t, 24*time.Hour, cfg.Lookup.TokenTTL())
	assert.Equal(t, 10, cfg.RateLimit.LoginLimit)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.LoginWindow())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, "hoa-portal-access", cfg.Postgres.ApplicationName)
}

func TestLoadOverrides(t *testing.T) {
	setSecrets(t)
	t.Setenv("APP_ENV", "Production")
	t.Setenv("DEPT_SESSION_TTL_HOURS", "1")
	t.Setenv("LOGIN_RATE_LIMIT", "3")
	t.Setenv("LOGIN_RATE_WINDOW_SECONDS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, time.Hour, cfg.Session.TTL())
	assert.Equal(t, 3, cfg.RateLimit.LoginLimit)
	assert.Equal(t, 5*time.Minute, cfg.RateLimit.LoginWindow())
}

func TestLoadFailsWithoutSecrets(t *testing.T) {
	for _, key := range []string{"AUTH_JWT_SECRET", "DEPT_SESSION_SECRET", "LOOKUP_TOKEN_SECRET"} {
		t.Run(key, func(t *testing.T) {
			setSecrets(t)
			t.Setenv(key, "")

			cfg, err := Load()
			assert.Nil(t, cfg)

			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, key, cfgErr.Key)
		})
	}
}

func TestLoadRejectsSharedSecrets(t *testing.T) {
	setSecrets(t)
	t.Setenv("LOOKUP_TOKEN_SECRET", "session-secret")

	_, err := Load()
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "LOOKUP_TOKEN_SECRET", cfgErr.Key)
	assert.Contains(t, cfgErr.Error(), "DEPT_SESSION_SECRET")
}
