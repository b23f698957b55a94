package graph

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/embeddings"
	"github.com/orbitscope/satassist-go/internal/metrics"
)

const defaultSearchLimit = 10

// Search embeds the query and linearly scans every node embedding by
// cosine similarity. With graphs in the low thousands of nodes the scan
// is cheaper than maintaining an index; swap in an ANN index here if the
// graph ever outgrows that.
func (s *Store) Search(ctx context.Context, query string, limit int) []apptype.SearchResult {
	done := metrics.TimeStage("graph_search")
	var success bool
	defer func() { done(success) }()

	if strings.TrimSpace(query) == "" {
		success = true
		return nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	queryVec := embeddings.EmbedOne(ctx, s.provider, query, s.dims)
	results := s.SearchByVector(queryVec, limit)
	success = true
	return results
}

// SearchByVector ranks all nodes against a precomputed query vector. Nodes
// without an embedding are skipped.
func (s *Store) SearchByVector(queryVec []float32, limit int) []apptype.SearchResult {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	s.mu.RLock()
	results := make([]apptype.SearchResult, 0, len(s.nodes))
	for _, node := range s.nodes {
		if len(node.Embedding) == 0 {
			continue
		}
		results = append(results, apptype.SearchResult{
			Node:       *node,
			Similarity: Cosine(queryVec, node.Embedding),
		})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return results[i].Node.ID < results[j].Node.ID
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Cosine is the cosine similarity of two vectors. Mismatched lengths and
// zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
