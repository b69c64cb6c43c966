package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://localhost/gatekeeper")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := FromViper(newViper())

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3*time.Second, cfg.DNSTimeout)
	assert.Equal(t, "data/blocked_users.json", cfg.LegacyBlockFile)
	assert.Equal(t, "openai", cfg.AIProvider)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.True(t, cfg.SeedPlans)
	assert.False(t, cfg.IsProduction())
}

func TestFromViperOverrides(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://db/gatekeeper")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("RATE_LIMIT_MAX", "20")
	t.Setenv("RATE_LIMIT_WINDOW", "2m")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("APP_ENV", "production")

	cfg, err := FromViper(newViper())

	require.NoError(t, err)
	assert.Equal(t, 20, cfg.RateLimitMax)
	assert.Equal(t, 2*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, "gemini", cfg.AIProvider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.IsProduction())
}

func TestFromViperRequiresSecrets(t *testing.T) {
	v := viper.New()
	v.Set("RATE_LIMIT_MAX", 5)
	v.Set("RATE_LIMIT_WINDOW", "60s")
	v.Set("RATE_LIMIT_SWEEP_INTERVAL", "5m")
	v.Set("FETCH_TIMEOUT", "5s")
	v.Set("DNS_TIMEOUT", "3s")

	_, err := FromViper(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
