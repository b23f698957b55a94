package graph

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/embeddings"
	"github.com/orbitscope/satassist-go/internal/metrics"
)

// Store is an in-memory directed multigraph of portal knowledge with
// per-node embeddings. All access goes through the store's lock; the data
// scale stays small enough that a single RWMutex is not a bottleneck.
type Store struct {
	mu    sync.RWMutex
	nodes map[string]*apptype.KnowledgeNode
	// out and in hold edge slices per endpoint. Parallel edges between the
	// same pair are allowed.
	out map[string][]*apptype.KnowledgeEdge
	in  map[string][]*apptype.KnowledgeEdge

	provider embeddings.Provider
	dims     int
	logger   *zap.Logger
}

func NewStore(provider embeddings.Provider, dims int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dims <= 0 {
		dims = 384
	}
	return &Store{
		nodes:    make(map[string]*apptype.KnowledgeNode),
		out:      make(map[string][]*apptype.KnowledgeEdge),
		in:       make(map[string][]*apptype.KnowledgeEdge),
		provider: provider,
		dims:     dims,
		logger:   logger,
	}
}

// AddNode upserts a node. The embedding is computed from "name description"
// unless both are empty or the node already carries one.
func (s *Store) AddNode(ctx context.Context, node apptype.KnowledgeNode) string {
	if node.ID == "" {
		return ""
	}
	if node.CreatedAt.IsZero() {
		node.CreatedAt = time.Now()
	}

	if len(node.Embedding) == 0 {
		text := strings.TrimSpace(node.Name + " " + node.Description)
		if text != "" {
			node.Embedding = embeddings.EmbedOne(ctx, s.provider, text, s.dims)
		}
	}

	s.mu.Lock()
	s.nodes[node.ID] = &node
	s.mu.Unlock()

	s.logger.Debug("added entity", zap.String("id", node.ID), zap.String("type", node.Type))
	s.observeSize()
	return node.ID
}

// AddEdge links two existing nodes. Returns false without mutating the
// graph when either endpoint is missing.
func (s *Store) AddEdge(source, target, relationship string, attributes map[string]string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[source]; !ok {
		s.logger.Warn("cannot add relationship, missing endpoint",
			zap.String("source", source), zap.String("target", target))
		return false
	}
	if _, ok := s.nodes[target]; !ok {
		s.logger.Warn("cannot add relationship, missing endpoint",
			zap.String("source", source), zap.String("target", target))
		return false
	}

	edge := &apptype.KnowledgeEdge{
		Source:       source,
		Target:       target,
		Relationship: relationship,
		Attributes:   attributes,
		CreatedAt:    time.Now(),
	}
	s.out[source] = append(s.out[source], edge)
	s.in[target] = append(s.in[target], edge)
	return true
}

// GetNode returns a copy of the node.
func (s *Store) GetNode(id string) (apptype.KnowledgeNode, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	node, ok := s.nodes[id]
	if !ok {
		return apptype.KnowledgeNode{}, false
	}
	return *node, true
}

// EdgeDirection tags which endpoint of a relationship the queried node is.
type EdgeDirection string

const (
	DirectionOutgoing EdgeDirection = "outgoing"
	DirectionIncoming EdgeDirection = "incoming"
)

// Relationship is one edge viewed from a specific node.
type Relationship struct {
	Direction    EdgeDirection     `json:"direction"`
	Other        string            `json:"other"`
	Relationship string            `json:"relationship"`
	Attributes   map[string]string `json:"attributes,omitempty"`
}

// Relationships lists every edge touching id, outgoing first.
func (s *Store) Relationships(id string) []Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rels []Relationship
	for _, e := range s.out[id] {
		rels = append(rels, Relationship{
			Direction:    DirectionOutgoing,
			Other:        e.Target,
			Relationship: e.Relationship,
			Attributes:   e.Attributes,
		})
	}
	for _, e := range s.in[id] {
		rels = append(rels, Relationship{
			Direction:    DirectionIncoming,
			Other:        e.Source,
			Relationship: e.Relationship,
			Attributes:   e.Attributes,
		})
	}
	return rels
}

const maxRelatedResults = 50

// Related returns entities reachable from id. Distance 1 lists direct
// neighbors, optionally filtered by relationship label on either edge
// direction. Larger distances walk breadth-first without a filter, capped
// at maxRelatedResults.
func (s *Store) Related(id string, relationshipFilter string, distance int) []apptype.KnowledgeNode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[id]; !ok {
		return nil
	}
	if distance <= 1 {
		return s.directNeighbors(id, relationshipFilter)
	}
	return s.walk(id, distance)
}

func (s *Store) directNeighbors(id, relationshipFilter string) []apptype.KnowledgeNode {
	seen := make(map[string]struct{})
	var related []apptype.KnowledgeNode

	consider := func(other, relationship string) {
		if relationshipFilter != "" && relationship != relationshipFilter {
			return
		}
		if _, dup := seen[other]; dup {
			return
		}
		seen[other] = struct{}{}
		if node, ok := s.nodes[other]; ok {
			related = append(related, *node)
		}
	}

	for _, e := range s.out[id] {
		consider(e.Target, e.Relationship)
	}
	for _, e := range s.in[id] {
		consider(e.Source, e.Relationship)
	}
	return related
}

func (s *Store) walk(id string, distance int) []apptype.KnowledgeNode {
	visited := map[string]struct{}{id: {}}
	level := []string{id}
	var related []apptype.KnowledgeNode

	for hop := 0; hop < distance; hop++ {
		var next []string
		for _, current := range level {
			for _, neighbor := range s.neighborIDs(current) {
				if _, ok := visited[neighbor]; ok {
					continue
				}
				visited[neighbor] = struct{}{}
				next = append(next, neighbor)
				if len(related) < maxRelatedResults {
					if node, ok := s.nodes[neighbor]; ok {
						related = append(related, *node)
					}
				}
			}
		}
		level = next
	}
	return related
}

func (s *Store) neighborIDs(id string) []string {
	var ids []string
	for _, e := range s.out[id] {
		ids = append(ids, e.Target)
	}
	for _, e := range s.in[id] {
		ids = append(ids, e.Source)
	}
	return ids
}

const maxPaths = 10

// FindPaths enumerates simple directed paths from source to target of at
// most maxLength edges, capped at maxPaths. Missing endpoints yield nil.
func (s *Store) FindPaths(source, target string, maxLength int) [][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.nodes[source]; !ok {
		return nil
	}
	if _, ok := s.nodes[target]; !ok {
		return nil
	}
	if maxLength <= 0 {
		maxLength = 3
	}

	var paths [][]string
	onPath := map[string]struct{}{source: {}}
	path := []string{source}

	var dfs func(current string)
	dfs = func(current string) {
		if len(paths) >= maxPaths {
			return
		}
		if current == target {
			paths = append(paths, append([]string(nil), path...))
			return
		}
		if len(path)-1 >= maxLength {
			return
		}
		for _, e := range s.out[current] {
			if _, ok := onPath[e.Target]; ok {
				continue
			}
			onPath[e.Target] = struct{}{}
			path = append(path, e.Target)
			dfs(e.Target)
			path = path[:len(path)-1]
			delete(onPath, e.Target)
		}
	}
	dfs(source)
	return paths
}

// Counts returns the current node and edge totals.
func (s *Store) Counts() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes), s.edgeCountLocked()
}

func (s *Store) edgeCountLocked() int {
	total := 0
	for _, edges := range s.out {
		total += len(edges)
	}
	return total
}

func (s *Store) observeSize() {
	nodes, edges := s.Counts()
	metrics.Default().ObserveGraphSize(nodes, edges)
}
