package utils

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// CompletionRequest is a single-turn prompt sent to a chat model.
type CompletionRequest struct {
	System      string
	Prompt      string
	JSON        bool
	Temperature float32
	MaxTokens   int
}

type LLMClientInterface interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Provider() string
}

type EmbeddingClientInterface interface {
	Embed(ctx context.Context, text string) (pgvector.Vector, error)
}

// NewLLMClient picks the chat backend by provider name. "openai" also covers
// any OpenAI-compatible endpoint (DashScope, DeepSeek, ...) through baseURL.
func NewLLMClient(ctx context.Context, provider, apiKey, baseURL, model string) (LLMClientInterface, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm api key is empty for provider %q", provider)
	}
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIChatClient(apiKey, baseURL, model), nil
	case "gemini":
		return NewGeminiChatClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s. Use 'openai' or 'gemini'", provider)
	}
}

// NewEmbeddingClient returns the OpenAI embedder when configured and the local
// hash embedder otherwise.
func NewEmbeddingClient(provider, apiKey, baseURL, model string, dimensions int) EmbeddingClientInterface {
	if strings.ToLower(provider) == "openai" && apiKey != "" {
		return NewOpenAIEmbeddingClient(apiKey, baseURL, model, dimensions)
	}
	return &HashEmbeddingClient{Dimensions: dimensions}
}

type HashEmbeddingClient struct {
	Dimensions int
}

func (h *HashEmbeddingClient) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	return HashVector(text, h.Dimensions), nil
}
