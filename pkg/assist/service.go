package assist

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/embeddings"
	"github.com/orbitscope/satassist-go/internal/geospatial"
	"github.com/orbitscope/satassist-go/internal/graph"
	"github.com/orbitscope/satassist-go/internal/nlp"
	"github.com/orbitscope/satassist-go/internal/resolver"
	"github.com/orbitscope/satassist-go/internal/session"
)

// Service provides a library-first API for the query engine without MCP
// transport. The snapshot store is optional: with no SnapshotURL the graph
// lives purely in memory, seeded with base knowledge.
type Service struct {
	resolver *resolver.Resolver
	store    *graph.Store
	snapshot *graph.SnapshotStore
	logger   *zap.Logger
}

// NewService constructs a Service with the provided config.
func NewService(cfg *Config, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	appCfg := cfg.toInternal()

	provider := embeddings.NewFromConfig(appCfg.Embedder)
	if provider != nil {
		provider = embeddings.WithZeroFallback(provider, logger)
	}
	dims := appCfg.Embedder.Dimensions

	var recognizer nlp.Recognizer = nlp.NopRecognizer{}
	if appCfg.NER.Endpoint != "" {
		recognizer = nlp.NewHTTPRecognizer(appCfg.NER.Endpoint,
			time.Duration(appCfg.NER.TimeoutSecs)*time.Second)
	}

	processor := nlp.NewProcessor(
		nlp.NewExtractor(recognizer, nlp.DefaultRules(), logger),
		nlp.NewClassifier(nlp.DefaultIntentRules(), logger),
		provider, dims, logger,
	)

	store := graph.NewStore(provider, dims, logger)

	var snapshot *graph.SnapshotStore
	if appCfg.Snapshot.URL != "" {
		var err error
		snapshot, err = graph.OpenSnapshotStore(appCfg.Snapshot.URL, appCfg.Snapshot.AuthToken, logger)
		if err != nil {
			return nil, err
		}
	}

	ctx := context.Background()
	if snapshot != nil {
		if err := snapshot.Load(ctx, store); err != nil {
			if !errors.Is(err, graph.ErrEmptySnapshot) {
				logger.Warn("snapshot load failed, starting from seed knowledge", zap.Error(err))
			}
			store.SeedBaseKnowledge(ctx)
		}
	} else {
		store.SeedBaseKnowledge(ctx)
	}

	sessions := session.NewManager(appCfg.Session.MaxEntries,
		appCfg.Session.IdleTTL, appCfg.Session.MaxSessions, logger)

	return &Service{
		resolver: resolver.New(processor, geospatial.NewHandler(logger), store, sessions, logger),
		store:    store,
		snapshot: snapshot,
		logger:   logger,
	}, nil
}

// Close releases resources.
func (s *Service) Close() error {
	if s.snapshot != nil {
		return s.snapshot.Close()
	}
	return nil
}

// Ask answers one query within a session.
func (s *Service) Ask(ctx context.Context, query, sessionID string) apptype.Response {
	return s.resolver.Resolve(ctx, query, sessionID)
}

// IngestContent folds content items into the knowledge graph and persists
// the snapshot when one is configured.
func (s *Service) IngestContent(ctx context.Context, items []apptype.ContentItem) ([]string, error) {
	ids := s.store.IngestContent(ctx, items)
	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, s.store); err != nil {
			return ids, err
		}
	}
	return ids, nil
}

// SearchGraph ranks graph nodes against a text query.
func (s *Service) SearchGraph(ctx context.Context, query string, limit int) []apptype.SearchResult {
	return s.store.Search(ctx, query, limit)
}

// RelatedEntities lists nodes reachable from id.
func (s *Service) RelatedEntities(id, relationship string, distance int) []apptype.KnowledgeNode {
	return s.store.Related(id, relationship, distance)
}

// FindPaths enumerates simple paths between two nodes.
func (s *Service) FindPaths(source, target string, maxLength int) [][]string {
	return s.store.FindPaths(source, target, maxLength)
}

// Statistics summarizes the graph.
func (s *Service) Statistics() apptype.GraphStatistics {
	return s.store.Statistics()
}

// ExportGraph writes the graph as JSON to path.
func (s *Service) ExportGraph(path string) error {
	return s.store.ExportJSON(path)
}

// SessionContext returns the bounded history for a session id.
func (s *Service) SessionContext(sessionID string) apptype.SessionContext {
	return s.resolver.SessionContext(sessionID)
}

// SaveSnapshot persists the graph immediately.
func (s *Service) SaveSnapshot(ctx context.Context) error {
	if s.snapshot == nil {
		return errors.New("no snapshot store configured")
	}
	return s.snapshot.Save(ctx, s.store)
}
