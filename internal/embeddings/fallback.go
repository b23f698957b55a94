package embeddings

import (
	"context"

	"go.uber.org/zap"
)

// fallbackProvider shields callers from provider failures: any error is
// logged and replaced by all-zero vectors of the expected dimension, so
// downstream similarity math stays well-defined.
type fallbackProvider struct {
	base   Provider
	logger *zap.Logger
}

// WithZeroFallback wraps base so Embed never returns an error.
func WithZeroFallback(base Provider, logger *zap.Logger) Provider {
	if base == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &fallbackProvider{base: base, logger: logger}
}

func (p *fallbackProvider) Name() string    { return p.base.Name() }
func (p *fallbackProvider) Dimensions() int { return p.base.Dimensions() }

func (p *fallbackProvider) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	vecs, err := p.base.Embed(ctx, inputs)
	if err == nil && len(vecs) == len(inputs) {
		return vecs, nil
	}
	if err != nil {
		p.logger.Warn("embedding provider failed, substituting zero vectors",
			zap.String("provider", p.base.Name()), zap.Error(err))
	} else {
		p.logger.Warn("embedding provider returned mismatched count, substituting zero vectors",
			zap.String("provider", p.base.Name()),
			zap.Int("want", len(inputs)), zap.Int("got", len(vecs)))
	}
	out := make([][]float32, len(inputs))
	for i := range out {
		out[i] = ZeroVector(p.base.Dimensions())
	}
	return out, nil
}

// ZeroVector returns an all-zero vector of the given dimension.
func ZeroVector(dims int) []float32 {
	if dims <= 0 {
		dims = 1
	}
	return make([]float32, dims)
}

// EmbedOne embeds a single text. A nil provider or a failure yields a zero
// vector of dims.
func EmbedOne(ctx context.Context, p Provider, text string, dims int) []float32 {
	if p == nil {
		return ZeroVector(dims)
	}
	vecs, err := p.Embed(ctx, []string{text})
	if err != nil || len(vecs) != 1 {
		return ZeroVector(p.Dimensions())
	}
	return vecs[0]
}
