package completion_fx

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"gatekeeper/internal/config"
	"gatekeeper/internal/repositories"
	"gatekeeper/internal/services"
	"gatekeeper/pkg/utils"
)

var Module = fx.Provide(
	ProvideCompletionClient,
	ProvideCompletionService)

// ProvideCompletionClient builds the client for the configured provider
// ("openai" or "gemini") and closes it on shutdown when it holds resources.
func ProvideCompletionClient(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (utils.CompletionClientInterface, error) {
	if cfg.AIAPIKey == "" {
		return nil, errors.New("AI_API_KEY is required")
	}

	client, err := utils.NewCompletionClient(context.Background(), cfg.AIProvider, cfg.AIAPIKey, cfg.AIModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.AIProvider, err)
	}

	logger.Info("completion client initialised",
		zap.String("provider", client.Provider()),
		zap.String("model", client.Model()))

	if closer, ok := client.(io.Closer); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return closer.Close()
			},
		})
	}
	return client, nil
}

func ProvideCompletionService(
	quota services.QuotaServiceInterface,
	client utils.CompletionClientInterface,
	usageRepo repositories.UsageRepository,
	logger *zap.Logger,
) services.CompletionServiceInterface {
	return services.NewCompletionService(quota, client, usageRepo, logger.Named("completion"))
}
