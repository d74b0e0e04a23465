package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"votely/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "DB_DSN", "RESET_DB", "REDIS_ADDR", "PUBLIC_URL",
		"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET", "LINKEDIN_CLIENT_ID", "LINKEDIN_CLIENT_SECRET"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "5000", cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "votely.db", cfg.DBDSN)
	assert.False(t, cfg.ResetDB)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "http://localhost:5000", cfg.PublicURL)

	_, ok := cfg.OAuth(model.ProviderGoogle)
	assert.False(t, ok)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "MySQL")
	t.Setenv("RESET_DB", "true")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PUBLIC_URL", "https://vote.example.com/")
	t.Setenv("LINKEDIN_CLIENT_ID", "li-id")
	t.Setenv("LINKEDIN_CLIENT_SECRET", "li-secret")
	t.Setenv("GOOGLE_CLIENT_ID", "only-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	cfg := Load()

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.True(t, cfg.ResetDB)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "https://vote.example.com", cfg.PublicURL)

	creds, ok := cfg.OAuth(model.ProviderLinkedIn)
	assert.True(t, ok)
	assert.Equal(t, "li-id", creds.ClientID)

	_, ok = cfg.OAuth(model.ProviderGoogle)
	assert.False(t, ok, "a provider with a missing secret stays disabled")
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("RESET_DB", "maybe")

	cfg := Load()

	assert.Equal(t, 0, cfg.RedisDB)
	assert.False(t, cfg.ResetDB)
}

func TestConfig_DefaultSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("SESSION_SECRET", "")
	assert.Equal(t, []string{"JWT_SECRET", "SESSION_SECRET"}, Load().DefaultSecrets())

	t.Setenv("JWT_SECRET", "a-long-random-value")
	assert.Equal(t, []string{"SESSION_SECRET"}, Load().DefaultSecrets())

	t.Setenv("SESSION_SECRET", "another-random-value")
	assert.Empty(t, Load().DefaultSecrets())
}
