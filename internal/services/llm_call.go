package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"travelmind/internal/observability"
	"travelmind/pkg/utils"
)

// callLLM runs one completion under timeout and records it as a vendor call.
func callLLM(ctx context.Context, llm utils.LLMClientInterface, timeout time.Duration, operation string, req utils.CompletionRequest) (string, error) {
	if llm == nil {
		return "", fmt.Errorf("%w: no llm client configured", utils.ErrLLMUnavailable)
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	ctx, finish := observability.StartVendorSpan(ctx, "llm", operation,
		attribute.String("llm.provider", llm.Provider()))
	start := time.Now()
	text, err := llm.Complete(ctx, req)
	finish(err)
	if err != nil {
		slog.ErrorContext(ctx, "LLM call failed",
			slog.String("operation", operation),
			slog.Duration("elapsed", time.Since(start)),
			slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", utils.ErrLLMUnavailable, err)
	}
	slog.InfoContext(ctx, "LLM call completed",
		slog.String("operation", operation),
		slog.Duration("elapsed", time.Since(start)),
		slog.Int("chars", len(text)))
	return text, nil
}
