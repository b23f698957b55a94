package resolver

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/geospatial"
	"github.com/orbitscope/satassist-go/internal/graph"
	"github.com/orbitscope/satassist-go/internal/nlp"
	"github.com/orbitscope/satassist-go/internal/session"
)

type cannedProvider struct {
	vectors map[string][]float32
}

func (c *cannedProvider) Name() string    { return "canned" }
func (c *cannedProvider) Dimensions() int { return 3 }

func (c *cannedProvider) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		if v, ok := c.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 0}
		}
	}
	return out, nil
}

func newTestResolver(t *testing.T, vectors map[string][]float32) (*Resolver, *graph.Store) {
	t.Helper()
	logger := zap.NewNop()
	provider := &cannedProvider{vectors: vectors}

	processor := nlp.NewProcessor(
		nlp.NewExtractor(nlp.NopRecognizer{}, nlp.DefaultRules(), logger),
		nlp.NewClassifier(nlp.DefaultIntentRules(), logger),
		provider, 3, logger,
	)
	store := graph.NewStore(provider, 3, logger)
	sessions := session.NewManager(10, 0, 0, logger)

	return New(processor, geospatial.NewHandler(logger), store, sessions, logger), store
}

func TestResolveInformationQueryUsesUpstreamConfidence(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	resp := r.Resolve(context.Background(), "What is sea surface temperature?", "s1")

	// With an empty graph the answer falls back to the portal overview,
	// but confidence still comes from query analysis.
	assert.Contains(t, resp.Answer, "MOSDAC")
	assert.Greater(t, resp.Confidence, 0.3)
	assert.Less(t, resp.Confidence, 1.0)
	assert.NotEmpty(t, resp.Suggestions)
	assert.LessOrEqual(t, len(resp.Suggestions), 5)
}

func TestResolveInformationQueryWithGraphMatch(t *testing.T) {
	vectors := map[string][]float32{
		"what is oceansat?": {1, 0, 0},
		"Oceansat Indian ocean observation satellite": {1, 0, 0},
	}
	r, store := newTestResolver(t, vectors)
	store.AddNode(context.Background(), apptype.KnowledgeNode{
		ID:          "oceansat",
		Type:        "SATELLITE",
		Name:        "Oceansat",
		Description: "Indian ocean observation satellite",
		Attributes:  map[string]string{"launch_year": "2009"},
	})

	resp := r.Resolve(context.Background(), "What is Oceansat?", "s1")
	assert.Contains(t, resp.Answer, "Oceansat: Indian ocean observation satellite")
	assert.Contains(t, resp.Answer, "Launch Year: 2009")
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "Oceansat", resp.Sources[0].Title)
	assert.InDelta(t, 1.0, resp.Sources[0].Relevance, 1e-6)
}

func TestResolveDataRequestBoostsConfidence(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	resp := r.Resolve(context.Background(),
		"How to download oceansat data? Is the data available to retrieve?", "s1")

	assert.Contains(t, resp.Answer, "I can help you access satellite data from MOSDAC.")
	assert.Contains(t, resp.Answer, "oceansat")
	assert.Contains(t, resp.Answer, "Register on the MOSDAC portal")
	assert.LessOrEqual(t, resp.Confidence, 1.0)
	assert.Greater(t, resp.Confidence, 0.5)
}

func TestResolveTechnicalSupportFixedConfidence(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	resp := r.Resolve(context.Background(),
		"An error occurred, problem with download not working, please troubleshoot", "s1")

	assert.InDelta(t, 0.8, resp.Confidence, 1e-9)
	assert.Contains(t, resp.Answer, "For error troubleshooting:")
	assert.Contains(t, resp.Answer, "For download issues:")
}

func TestResolveRecordsSession(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	r.Resolve(context.Background(), "What is NDVI?", "chat-1")
	r.Resolve(context.Background(), "Explain Oceansat", "chat-1")

	ctx := r.SessionContext("chat-1")
	require.Len(t, ctx.Entries, 2)
	assert.Equal(t, "What is NDVI?", ctx.Entries[0].Query)

	assert.Empty(t, r.SessionContext("chat-2").Entries)
}

func TestResolveGeospatialAttachesPayload(t *testing.T) {
	r, _ := newTestResolver(t, nil)
	resp := r.Resolve(context.Background(), "Show data for coordinates 28.6, 77.2", "s1")

	require.NotNil(t, resp.Geospatial)
	assert.True(t, resp.Geospatial.HasSpatialData)
	require.Len(t, resp.Geospatial.Coordinates, 1)
	assert.InDelta(t, 28.6, resp.Geospatial.Coordinates[0].Lat, 1e-9)
}

func TestErrorResponseShape(t *testing.T) {
	resp := errorResponse()
	assert.Zero(t, resp.Confidence)
	assert.Len(t, resp.Suggestions, 4)
	assert.Contains(t, resp.Suggestions, "Try rephrasing your question")
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	got := truncate(strings.Repeat("ñ", 10), 4)
	assert.Equal(t, "ññññ", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "abc", truncate("abc", 100))
	assert.Equal(t, "abcd", truncate("abcdef", 4))
}
