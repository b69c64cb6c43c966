package ratelimit_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"gatekeeper/internal/config"
	"gatekeeper/pkg/ratelimit"
)

var Module = fx.Provide(
	provideLimiter,
	providePolicy)

// provideLimiter runs the sweep janitor for the lifetime of the app so idle
// client windows do not accumulate.
func provideLimiter(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) *ratelimit.Limiter {
	limiter := ratelimit.NewLimiter()

	var stop func()
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			stop = limiter.StartJanitor(cfg.RateLimitSweepInterval, cfg.RateLimitWindow)
			logger.Info("rate limiter started",
				zap.Int("max", cfg.RateLimitMax),
				zap.Duration("window", cfg.RateLimitWindow))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if stop != nil {
				stop()
			}
			return nil
		},
	})
	return limiter
}

func providePolicy(cfg config.Config) ratelimit.Policy {
	return ratelimit.Policy{Max: cfg.RateLimitMax, Window: cfg.RateLimitWindow}
}
