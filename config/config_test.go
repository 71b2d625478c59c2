package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFailsFastWithoutDatabaseURL(t *testing.T) {
	viper.Reset()
	t.Setenv("DATABASE_URL", "")

	_, err := LoadConfig()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoadConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/briefly")
	t.Setenv("GEMINI_TOKEN", "test-token")
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()

	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/briefly", cfg.Database.URL)
	assert.Equal(t, "test-token", cfg.Generator.Token)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "gemini-2.5-flash", cfg.Generator.Model)
}
