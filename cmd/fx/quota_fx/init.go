package quota_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gatekeeper/internal/config"
	"gatekeeper/internal/repositories"
	"gatekeeper/internal/services"
	"gatekeeper/pkg/blocklist"
)

var Module = fx.Provide(
	provideSubscriptionRepo,
	providePlanRepo,
	provideUsageRepo,
	provideLegacyBlocklist,
	provideQuotaService,
	providePlanService)

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func providePlanRepo(db *gorm.DB) repositories.IPlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideUsageRepo(db *gorm.DB) repositories.UsageRepository {
	return repositories.NewUsageRepository(db)
}

// provideLegacyBlocklist makes sure the file exists before the first
// request; a failure there is logged since reads already fail open.
func provideLegacyBlocklist(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) blocklist.Store {
	store := blocklist.NewFileStore(cfg.LegacyBlockFile)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := store.Ensure(ctx); err != nil {
				logger.Warn("legacy block list unavailable",
					zap.String("path", cfg.LegacyBlockFile), zap.Error(err))
			}
			return nil
		},
	})
	return store
}

func provideQuotaService(
	subscriptionRepo repositories.SubscriptionRepository,
	planRepo repositories.IPlanRepository,
	usageRepo repositories.UsageRepository,
	legacyBlocks blocklist.Store,
	logger *zap.Logger,
) services.QuotaServiceInterface {
	return services.NewQuotaService(subscriptionRepo, planRepo, usageRepo, legacyBlocks, logger.Named("quota"))
}

func providePlanService(planRepo repositories.IPlanRepository) services.PlanServiceInterface {
	return services.NewPlanService(planRepo)
}
