package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"BACKEND_URL": "https://api.lottohappy.example"}))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 2, cfg.BackendMaxRetries)
	assert.Equal(t, int64(500), cfg.MinWithdrawal)
	assert.False(t, cfg.UseLocalFallback)
	assert.Empty(t, cfg.AdminTelegramIDs)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"BACKEND_URL":        "http://backend:8000",
		"BACKEND_TIMEOUT":    "3s",
		"USE_LOCAL_FALLBACK": "true",
		"TURSO_DATABASE_URL": "libsql://lotto.turso.io",
		"TURSO_AUTH_TOKEN":   "tok",
		"JWT_SECRET":         "jwt-secret",
		"ADMIN_TELEGRAM_IDS": "111, 222",
		"RATE_LIMIT_RPS":     "2.5",
	}))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.True(t, cfg.UseLocalFallback)
	assert.Equal(t, "libsql://lotto.turso.io", cfg.DBURL)
	assert.Equal(t, "tok", cfg.DBAuthToken)
	assert.Equal(t, []int64{111, 222}, cfg.AdminTelegramIDs)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
}

func TestFromEnvErrors(t *testing.T) {
	_, err := FromEnv(env(map[string]string{}))
	assert.ErrorContains(t, err, "BACKEND_URL")

	_, err = FromEnv(env(map[string]string{
		"BACKEND_URL":     "http://backend",
		"BACKEND_TIMEOUT": "soon",
		"REDIS_DB":        "one",
	}))
	assert.ErrorContains(t, err, "BACKEND_TIMEOUT")
	assert.ErrorContains(t, err, "REDIS_DB")

	_, err = FromEnv(env(map[string]string{"BACKEND_URL": "http://backend", "USE_LOCAL_FALLBACK": "1"}))
	assert.ErrorContains(t, err, "DB_URL")
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = FromEnv(env(map[string]string{"BACKEND_URL": "http://backend", "USE_LOCAL_FALLBACK": "1", "DB_URL": "memory"}))
	assert.ErrorContains(t, err, "USE_LOCAL_FALLBACK requires JWT_SECRET")
}
