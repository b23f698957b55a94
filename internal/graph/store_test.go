package graph

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// fixedProvider returns a canned vector per input text so similarity
// outcomes are controlled by the test.
type fixedProvider struct {
	vectors map[string][]float32
}

func (f *fixedProvider) Name() string    { return "fixed" }
func (f *fixedProvider) Dimensions() int { return 3 }

func (f *fixedProvider) Embed(_ context.Context, inputs []string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, text := range inputs {
		if v, ok := f.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 0}
		}
	}
	return out, nil
}

func newTestStore(vectors map[string][]float32) *Store {
	return NewStore(&fixedProvider{vectors: vectors}, 3, zap.NewNop())
}

func addNamed(t *testing.T, s *Store, id, name string) {
	t.Helper()
	require.Equal(t, id, s.AddNode(context.Background(), apptype.KnowledgeNode{
		ID: id, Type: "SATELLITE", Name: name,
	}))
}

func TestAddEdgeRequiresBothEndpoints(t *testing.T) {
	s := newTestStore(nil)
	addNamed(t, s, "a", "a")

	assert.False(t, s.AddEdge("a", "b", "mentions", nil))
	_, edges := s.Counts()
	assert.Zero(t, edges)

	addNamed(t, s, "b", "b")
	assert.True(t, s.AddEdge("a", "b", "mentions", nil))
	_, edges = s.Counts()
	assert.Equal(t, 1, edges)
}

func TestSearchRanksBySimilarity(t *testing.T) {
	s := newTestStore(map[string][]float32{
		"ocean query": {1, 0, 0},
		"Oceansat":    {1, 0, 0},
		"ResourceSat": {0.5, 0.5, 0},
		"Cloud Cover": {0, 0, 1},
	})
	addNamed(t, s, "oceansat", "Oceansat")
	addNamed(t, s, "resourcesat", "ResourceSat")
	addNamed(t, s, "clouds", "Cloud Cover")

	results := s.Search(context.Background(), "ocean query", 2)
	require.Len(t, results, 2)
	assert.Equal(t, "oceansat", results[0].Node.ID)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, "resourcesat", results[1].Node.ID)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)

	assert.Empty(t, s.Search(context.Background(), "   ", 5))
}

func TestRelatedDirectAndFiltered(t *testing.T) {
	s := newTestStore(nil)
	for _, id := range []string{"mosdac", "satellite_data", "oceansat"} {
		addNamed(t, s, id, id)
	}
	require.True(t, s.AddEdge("mosdac", "satellite_data", "provides", nil))
	require.True(t, s.AddEdge("oceansat", "satellite_data", "generates", nil))

	related := s.Related("satellite_data", "", 1)
	assert.Len(t, related, 2)

	provides := s.Related("satellite_data", "provides", 1)
	require.Len(t, provides, 1)
	assert.Equal(t, "mosdac", provides[0].ID)

	assert.Nil(t, s.Related("missing", "", 1))
}

func TestRelatedMultiHop(t *testing.T) {
	s := newTestStore(nil)
	for _, id := range []string{"a", "b", "c", "d"} {
		addNamed(t, s, id, id)
	}
	require.True(t, s.AddEdge("a", "b", "linked", nil))
	require.True(t, s.AddEdge("b", "c", "linked", nil))
	require.True(t, s.AddEdge("c", "d", "linked", nil))

	oneHop := s.Related("a", "", 1)
	assert.Len(t, oneHop, 1)

	twoHop := s.Related("a", "", 2)
	assert.Len(t, twoHop, 2)
}

func TestFindPaths(t *testing.T) {
	s := newTestStore(nil)
	for _, id := range []string{"a", "b", "c", "d"} {
		addNamed(t, s, id, id)
	}
	require.True(t, s.AddEdge("a", "b", "linked", nil))
	require.True(t, s.AddEdge("b", "d", "linked", nil))
	require.True(t, s.AddEdge("a", "c", "linked", nil))
	require.True(t, s.AddEdge("c", "d", "linked", nil))

	paths := s.FindPaths("a", "d", 3)
	assert.Len(t, paths, 2)
	for _, p := range paths {
		assert.Equal(t, "a", p[0])
		assert.Equal(t, "d", p[len(p)-1])
	}

	assert.Empty(t, s.FindPaths("a", "d", 1))
	assert.Nil(t, s.FindPaths("a", "missing", 3))
}

func TestIngestContentMentionThreshold(t *testing.T) {
	s := newTestStore(map[string][]float32{
		"Oceansat":     {1, 0, 0},
		"ocean":        {0.9, 0.435889894, 0}, // cosine vs oceansat = 0.9
		"cloud":        {0.65, 0.3, 0.698212002},
		"Ocean winds.": {0, 1, 0},
	})
	addNamed(t, s, "oceansat", "Oceansat")

	ids := s.IngestContent(context.Background(), []apptype.ContentItem{{
		Title:    "Ocean winds.",
		URL:      "https://example.org/winds",
		Keywords: []string{"ocean"},
	}})
	require.Len(t, ids, 1)

	rels := s.Relationships(ids[0])
	require.Len(t, rels, 1)
	assert.Equal(t, "mentions", rels[0].Relationship)
	assert.Equal(t, "oceansat", rels[0].Other)

	// Below the 0.7 threshold no edge is created.
	ids = s.IngestContent(context.Background(), []apptype.ContentItem{{
		Title:    "Cloud atlas",
		Keywords: []string{"cloud"},
	}})
	require.Len(t, ids, 1)
	assert.Empty(t, s.Relationships(ids[0]))
}

func TestIngestContentTruncatesDescriptionOnRuneBoundary(t *testing.T) {
	s := newTestStore(nil)

	ids := s.IngestContent(context.Background(), []apptype.ContentItem{{
		Title:       "Umlaut flood",
		Description: strings.Repeat("ü", 600),
	}})
	require.Len(t, ids, 1)

	node, ok := s.GetNode(ids[0])
	require.True(t, ok)
	assert.Equal(t, 500, utf8.RuneCountInString(node.Description))
	assert.True(t, utf8.ValidString(node.Description))
}

func TestStatistics(t *testing.T) {
	s := newTestStore(nil)
	s.SeedBaseKnowledge(context.Background())

	stats := s.Statistics()
	assert.Equal(t, 4, stats.Nodes)
	assert.Equal(t, 4, stats.Edges)
	assert.Equal(t, 1, stats.Components)
	assert.Contains(t, stats.EntityTypes, "ORGANIZATION")
	assert.Contains(t, stats.RelationshipTypes, "provides")
	assert.InDelta(t, 4.0/12.0, stats.Density, 1e-9)
}

func TestExportJSON(t *testing.T) {
	s := newTestStore(nil)
	s.SeedBaseKnowledge(context.Background())

	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, s.ExportJSON(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Nodes    []apptype.KnowledgeNode `json:"nodes"`
		Edges    []apptype.KnowledgeEdge `json:"edges"`
		Metadata apptype.GraphStatistics `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Nodes, 4)
	assert.Len(t, doc.Edges, 4)
	assert.Equal(t, 4, doc.Metadata.Nodes)
}

func TestVectorBlobRoundTrip(t *testing.T) {
	v := []float32{0.25, -1.5, 3}
	assert.Equal(t, v, blobToVector(vectorToBlob(v)))
	assert.Nil(t, vectorToBlob(nil))
	assert.Nil(t, blobToVector(nil))
}
