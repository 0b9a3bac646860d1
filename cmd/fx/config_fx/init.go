package config_fx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"travelmind/internal/config"
	"travelmind/internal/observability"
)

var Module = fx.Options(
	fx.Provide(config.Load, provideLogger, provideTelemetry),
	fx.Provide(
		func(cfg config.Config) config.DatabaseConfig { return cfg.Database },
		func(cfg config.Config) config.LLMConfig { return cfg.LLM },
		func(cfg config.Config) config.EmbeddingConfig { return cfg.Embedding },
		func(cfg config.Config) config.MapsConfig { return cfg.Maps },
		func(cfg config.Config) config.StorageConfig { return cfg.Storage },
		func(cfg config.Config) config.SpeechConfig { return cfg.Speech },
	),
)

func provideLogger(cfg config.Config) *slog.Logger {
	logger := observability.NewLogger(cfg.App.Env)
	slog.SetDefault(logger)
	return logger
}

func provideTelemetry(lc fx.Lifecycle, logger *slog.Logger) (*observability.Telemetry, error) {
	tel, err := observability.InitTelemetry()
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Flushing telemetry")
			return tel.Shutdown(ctx)
		},
	})
	return tel, nil
}
