package graph

import (
	"sort"
	"time"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// Statistics summarizes the graph: counts, distinct labels, weakly
// connected components and edge density.
func (s *Store) Statistics() apptype.GraphStatistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entityTypes := make(map[string]struct{})
	for _, node := range s.nodes {
		entityTypes[node.Type] = struct{}{}
	}
	relationshipTypes := make(map[string]struct{})
	for _, edges := range s.out {
		for _, e := range edges {
			relationshipTypes[e.Relationship] = struct{}{}
		}
	}

	n := len(s.nodes)
	edges := s.edgeCountLocked()

	density := 0.0
	if n > 1 {
		density = float64(edges) / float64(n*(n-1))
	}

	return apptype.GraphStatistics{
		Nodes:             n,
		Edges:             edges,
		EntityTypes:       sortedKeys(entityTypes),
		RelationshipTypes: sortedKeys(relationshipTypes),
		Components:        s.weakComponentsLocked(),
		Density:           density,
		LastUpdated:       time.Now(),
	}
}

// weakComponentsLocked counts components treating every edge as undirected.
func (s *Store) weakComponentsLocked() int {
	visited := make(map[string]struct{}, len(s.nodes))
	components := 0

	for id := range s.nodes {
		if _, ok := visited[id]; ok {
			continue
		}
		components++
		stack := []string{id}
		visited[id] = struct{}{}
		for len(stack) > 0 {
			current := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, neighbor := range s.neighborIDs(current) {
				if _, ok := visited[neighbor]; ok {
					continue
				}
				visited[neighbor] = struct{}{}
				stack = append(stack, neighbor)
			}
		}
	}
	return components
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
