package link_preview_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"gatekeeper/internal/config"
	"gatekeeper/internal/services"
	"gatekeeper/pkg/metrics"
	"gatekeeper/pkg/netguard"
)

var Module = fx.Provide(
	provideGuard,
	provideLinkPreviewService)

func provideGuard(cfg config.Config, logger *zap.Logger) *netguard.Guard {
	return netguard.New(
		netguard.WithLookupTimeout(cfg.DNSTimeout),
		netguard.WithRejectHook(func(stage netguard.Stage) {
			metrics.FetchGuardRejections.WithLabelValues(string(stage)).Inc()
			logger.Debug("fetch guard rejected url", zap.String("stage", string(stage)))
		}),
	)
}

func provideLinkPreviewService(guard *netguard.Guard, cfg config.Config, logger *zap.Logger) services.LinkPreviewServiceInterface {
	return services.NewLinkPreviewService(guard, logger.Named("link_preview"),
		services.WithFetchTimeout(cfg.FetchTimeout))
}
