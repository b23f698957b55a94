package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

type exportDocument struct {
	Nodes    []apptype.KnowledgeNode `json:"nodes"`
	Edges    []apptype.KnowledgeEdge `json:"edges"`
	Metadata apptype.GraphStatistics `json:"metadata"`
}

// ExportJSON writes the whole graph to path as indented JSON. Nodes and
// edges are sorted for stable output; embeddings are omitted via the node's
// JSON tags when empty but otherwise included.
func (s *Store) ExportJSON(path string) error {
	doc := exportDocument{Metadata: s.Statistics()}

	s.mu.RLock()
	for _, node := range s.nodes {
		doc.Nodes = append(doc.Nodes, *node)
	}
	for _, edges := range s.out {
		for _, e := range edges {
			doc.Edges = append(doc.Edges, *e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(doc.Nodes, func(i, j int) bool { return doc.Nodes[i].ID < doc.Nodes[j].ID })
	sort.Slice(doc.Edges, func(i, j int) bool {
		if doc.Edges[i].Source != doc.Edges[j].Source {
			return doc.Edges[i].Source < doc.Edges[j].Source
		}
		return doc.Edges[i].Target < doc.Edges[j].Target
	})

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal graph export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write graph export: %w", err)
	}

	s.logger.Info("knowledge graph exported", zap.String("path", path))
	return nil
}
