package embeddings

import (
	"context"
	"strings"

	"github.com/orbitscope/satassist-go/internal/config"
)

// Provider defines a simple embeddings provider interface.
// Implementations should be concurrency-safe.
type Provider interface {
	// Name returns the provider name (e.g., "openai", "ollama").
	Name() string
	// Dimensions returns the embedding dimensionality this provider produces.
	Dimensions() int
	// Embed returns one embedding per input string.
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// NewFromConfig constructs a provider from the embedder config section.
// An unknown or empty type yields nil (embeddings disabled); callers must
// handle a nil provider gracefully.
func NewFromConfig(cfg config.EmbedderConfig) Provider {
	var p Provider
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case "openai":
		p = newOpenAI(cfg)
	case "ollama":
		p = newOllama(cfg)
	case "localai", "llamacpp", "llama.cpp":
		p = newLocalAI(cfg)
	default:
		return nil
	}
	if p == nil {
		return nil
	}
	if cfg.Dimensions > 0 && p.Dimensions() != cfg.Dimensions {
		p = WrapToDims(p, cfg.Dimensions, "pad_or_truncate")
	}
	return p
}
