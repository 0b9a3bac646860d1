package llm_fx

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"travelmind/internal/config"
	"travelmind/pkg/utils"
)

var Module = fx.Provide(
	ProvideLLMClient,
	ProvideEmbeddingClient)

// ProvideLLMClient creates the chat client for the configured provider.
func ProvideLLMClient(cfg config.LLMConfig) (utils.LLMClientInterface, error) {
	slog.Info("Initializing LLM client",
		slog.String("provider", cfg.Provider), slog.String("model", cfg.Model))
	return utils.NewLLMClient(context.Background(), cfg.Provider, cfg.APIKey, cfg.BaseURL, cfg.Model)
}

// ProvideEmbeddingClient falls back to the local hash embedder when no
// embedding API is configured.
func ProvideEmbeddingClient(cfg config.EmbeddingConfig) utils.EmbeddingClientInterface {
	slog.Info("Initializing embedding client",
		slog.String("provider", cfg.Provider), slog.Int("dimensions", cfg.Dimensions))
	return utils.NewEmbeddingClient(cfg.Provider, cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Dimensions)
}
