package embeddings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProvider struct {
	dims int
	vecs [][]float32
	err  error
}

func (s *stubProvider) Name() string    { return "stub" }
func (s *stubProvider) Dimensions() int { return s.dims }

func (s *stubProvider) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.vecs, nil
}

func TestWrapToDimsPadsAndTruncates(t *testing.T) {
	base := &stubProvider{dims: 3, vecs: [][]float32{{1, 2, 3}}}

	padded := WrapToDims(base, 5, "pad_or_truncate")
	vecs, err := padded.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	require.Len(t, vecs, 1)
	assert.Equal(t, []float32{1, 2, 3, 0, 0}, vecs[0])
	assert.Equal(t, 5, padded.Dimensions())

	truncated := WrapToDims(base, 2, "pad_or_truncate")
	vecs, err = truncated.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2}, vecs[0])
}

func TestWithZeroFallbackSubstitutesOnError(t *testing.T) {
	base := &stubProvider{dims: 4, err: errors.New("connection refused")}
	p := WithZeroFallback(base, zap.NewNop())

	vecs, err := p.Embed(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	for _, v := range vecs {
		assert.Equal(t, []float32{0, 0, 0, 0}, v)
	}
}

func TestEmbedOne(t *testing.T) {
	assert.Equal(t, []float32{0, 0, 0}, EmbedOne(context.Background(), nil, "x", 3))

	base := &stubProvider{dims: 2, vecs: [][]float32{{0.5, 0.25}}}
	assert.Equal(t, []float32{0.5, 0.25}, EmbedOne(context.Background(), base, "x", 2))

	failing := &stubProvider{dims: 2, err: errors.New("timeout")}
	assert.Equal(t, []float32{0, 0}, EmbedOne(context.Background(), failing, "x", 2))
}
