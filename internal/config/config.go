// Package config loads service settings from the environment (and an
// optional .env file) into a typed Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string
	Port   string

	PostgresURL string
	JWTSecret   string

	RateLimitMax           int
	RateLimitWindow        time.Duration
	RateLimitSweepInterval time.Duration

	FetchTimeout time.Duration
	DNSTimeout   time.Duration

	LegacyBlockFile string
	SeedPlans       bool

	AIProvider string
	AIAPIKey   string
	AIModel    string

	CORSOrigins []string
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Load reads .env from the working directory if present; real environment
// variables take precedence over it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("RATE_LIMIT_MAX", 5)
	v.SetDefault("RATE_LIMIT_WINDOW", "60s")
	v.SetDefault("RATE_LIMIT_SWEEP_INTERVAL", "5m")
	v.SetDefault("FETCH_TIMEOUT", "5s")
	v.SetDefault("DNS_TIMEOUT", "3s")
	v.SetDefault("LEGACY_BLOCK_FILE", "data/blocked_users.json")
	v.SetDefault("SEED_PLANS", true)
	v.SetDefault("AI_PROVIDER", "openai")
	v.SetDefault("CORS_ORIGINS", "*")

	// AutomaticEnv only answers Get for keys viper already knows about.
	for _, key := range []string{"POSTGRES_URL", "JWT_SECRET", "AI_API_KEY", "AI_MODEL"} {
		_ = v.BindEnv(key)
	}
	return v
}

func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppEnv:                 v.GetString("APP_ENV"),
		Port:                   v.GetString("PORT"),
		PostgresURL:            v.GetString("POSTGRES_URL"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		RateLimitMax:           v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow:        v.GetDuration("RATE_LIMIT_WINDOW"),
		RateLimitSweepInterval: v.GetDuration("RATE_LIMIT_SWEEP_INTERVAL"),
		FetchTimeout:           v.GetDuration("FETCH_TIMEOUT"),
		DNSTimeout:             v.GetDuration("DNS_TIMEOUT"),
		LegacyBlockFile:        v.GetString("LEGACY_BLOCK_FILE"),
		SeedPlans:              v.GetBool("SEED_PLANS"),
		AIProvider:             strings.ToLower(v.GetString("AI_PROVIDER")),
		AIAPIKey:               v.GetString("AI_API_KEY"),
		AIModel:                v.GetString("AI_MODEL"),
		CORSOrigins:            splitList(v.GetString("CORS_ORIGINS")),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if c.PostgresURL == "" {
		errs = append(errs, errors.New("POSTGRES_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimitSweepInterval <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_SWEEP_INTERVAL must be positive"))
	}
	if c.FetchTimeout <= 0 || c.DNSTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT and DNS_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
