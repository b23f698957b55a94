package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/buildinfo"
	"github.com/orbitscope/satassist-go/internal/graph"
	"github.com/orbitscope/satassist-go/internal/metrics"
	"github.com/orbitscope/satassist-go/internal/resolver"
)

// MCPServer exposes the query engine and knowledge graph over MCP.
type MCPServer struct {
	server   *mcp.Server
	resolver *resolver.Resolver
	store    *graph.Store
	snapshot *graph.SnapshotStore
	dims     int
	logger   *zap.Logger
}

// NewMCPServer wires the engine components into an MCP tool surface.
// snapshot may be nil, in which case save_snapshot reports failure.
func NewMCPServer(res *resolver.Resolver, store *graph.Store, snapshot *graph.SnapshotStore, dims int, logger *zap.Logger) *MCPServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "satassist-go",
		Version: buildinfo.Version,
	}, nil)

	s := &MCPServer{
		server:   server,
		resolver: res,
		store:    store,
		snapshot: snapshot,
		dims:     dims,
		logger:   logger,
	}
	s.setupToolHandlers()
	return s
}

func mustSchema[T any](name string) *jsonschema.Schema {
	schema, err := jsonschema.For[T]()
	if err != nil {
		panic(fmt.Sprintf("failed to create schema for %s: %v", name, err))
	}
	return schema
}

// setupToolHandlers registers all MCP tools
func (s *MCPServer) setupToolHandlers() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "ask",
		Title:        "Ask",
		Description:  "Answer a free-text question about the satellite data portal.",
		InputSchema:  mustSchema[apptype.AskArgs]("AskArgs"),
		OutputSchema: mustSchema[apptype.Response]("Response"),
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_content",
		Title:       "Ingest Content",
		Description: "Fold crawled content items into the knowledge graph.",
		InputSchema: mustSchema[apptype.IngestContentArgs]("IngestContentArgs"),
	}, s.handleIngestContent)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "search_graph",
		Title:        "Search Graph",
		Description:  "Search knowledge graph nodes by semantic similarity.",
		InputSchema:  mustSchema[apptype.SearchGraphArgs]("SearchGraphArgs"),
		OutputSchema: mustSchema[apptype.SearchGraphResult]("SearchGraphResult"),
	}, s.handleSearchGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "related_entities",
		Title:        "Related Entities",
		Description:  "List entities related to a node, one hop or a bounded walk.",
		InputSchema:  mustSchema[apptype.RelatedEntitiesArgs]("RelatedEntitiesArgs"),
		OutputSchema: mustSchema[apptype.RelatedEntitiesResult]("RelatedEntitiesResult"),
	}, s.handleRelatedEntities)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "find_paths",
		Title:        "Find Paths",
		Description:  "Find simple directed paths between two nodes.",
		InputSchema:  mustSchema[apptype.FindPathsArgs]("FindPathsArgs"),
		OutputSchema: mustSchema[apptype.FindPathsResult]("FindPathsResult"),
	}, s.handleFindPaths)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "graph_stats",
		Title:        "Graph Stats",
		Description:  "Summarize the knowledge graph's size and shape.",
		InputSchema:  mustSchema[apptype.GraphStatsArgs]("GraphStatsArgs"),
		OutputSchema: mustSchema[apptype.GraphStatistics]("GraphStatistics"),
	}, s.handleGraphStats)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "export_graph",
		Title:       "Export Graph",
		Description: "Export the knowledge graph to a JSON file.",
		InputSchema: mustSchema[apptype.ExportGraphArgs]("ExportGraphArgs"),
	}, s.handleExportGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "session_context",
		Title:        "Session Context",
		Description:  "Read the recent conversation history for a session.",
		InputSchema:  mustSchema[apptype.SessionContextArgs]("SessionContextArgs"),
		OutputSchema: mustSchema[apptype.SessionContext]("SessionContext"),
	}, s.handleSessionContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "save_snapshot",
		Title:       "Save Snapshot",
		Description: "Persist the in-memory knowledge graph to the snapshot store.",
		InputSchema: mustSchema[apptype.SaveSnapshotArgs]("SaveSnapshotArgs"),
	}, s.handleSaveSnapshot)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         "health_check",
		Title:        "Health Check",
		Description:  "Report build and engine health information.",
		InputSchema:  mustSchema[apptype.HealthArgs]("HealthArgs"),
		OutputSchema: mustSchema[apptype.HealthResult]("HealthResult"),
	}, s.handleHealth)
}

func (s *MCPServer) handleAsk(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.AskArgs],
) (*mcp.CallToolResultFor[apptype.Response], error) {
	done := metrics.TimeTool("ask")
	var success bool
	defer func() { done(success) }()

	if params.Arguments.Query == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	response := s.resolver.Resolve(ctx, params.Arguments.Query, params.Arguments.SessionID)
	success = true

	return &mcp.CallToolResultFor[apptype.Response]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: response.Answer},
		},
		StructuredContent: response,
	}, nil
}

func (s *MCPServer) handleIngestContent(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.IngestContentArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("ingest_content")
	var success bool
	defer func() { done(success) }()

	if len(params.Arguments.Items) == 0 {
		return nil, fmt.Errorf("items must not be empty")
	}

	ids := s.store.IngestContent(ctx, params.Arguments.Items)
	if s.snapshot != nil {
		if err := s.snapshot.Save(ctx, s.store); err != nil {
			s.logger.Warn("snapshot save after ingest failed", zap.Error(err))
		}
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Ingested %d content item(s)", len(ids))},
		},
	}, nil
}

func (s *MCPServer) handleSearchGraph(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SearchGraphArgs],
) (*mcp.CallToolResultFor[apptype.SearchGraphResult], error) {
	done := metrics.TimeTool("search_graph")
	var success bool
	defer func() { done(success) }()

	limit := params.Arguments.Limit
	if limit <= 0 {
		limit = 5
	}

	results := s.store.Search(ctx, params.Arguments.Query, limit)
	success = true

	return &mcp.CallToolResultFor[apptype.SearchGraphResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d result(s)", len(results))},
		},
		StructuredContent: apptype.SearchGraphResult{Results: results},
	}, nil
}

func (s *MCPServer) handleRelatedEntities(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.RelatedEntitiesArgs],
) (*mcp.CallToolResultFor[apptype.RelatedEntitiesResult], error) {
	done := metrics.TimeTool("related_entities")
	var success bool
	defer func() { done(success) }()

	if params.Arguments.ID == "" {
		return nil, fmt.Errorf("id must not be empty")
	}
	distance := params.Arguments.Distance
	if distance <= 0 {
		distance = 1
	}

	nodes := s.store.Related(params.Arguments.ID, params.Arguments.Relationship, distance)
	success = true

	return &mcp.CallToolResultFor[apptype.RelatedEntitiesResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d related entities", len(nodes))},
		},
		StructuredContent: apptype.RelatedEntitiesResult{Nodes: nodes},
	}, nil
}

func (s *MCPServer) handleFindPaths(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.FindPathsArgs],
) (*mcp.CallToolResultFor[apptype.FindPathsResult], error) {
	done := metrics.TimeTool("find_paths")
	var success bool
	defer func() { done(success) }()

	if params.Arguments.Source == "" || params.Arguments.Target == "" {
		return nil, fmt.Errorf("source and target must not be empty")
	}

	paths := s.store.FindPaths(params.Arguments.Source, params.Arguments.Target, params.Arguments.MaxLength)
	success = true

	return &mcp.CallToolResultFor[apptype.FindPathsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d path(s)", len(paths))},
		},
		StructuredContent: apptype.FindPathsResult{Paths: paths},
	}, nil
}

func (s *MCPServer) handleGraphStats(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.GraphStatsArgs],
) (*mcp.CallToolResultFor[apptype.GraphStatistics], error) {
	done := metrics.TimeTool("graph_stats")
	var success bool
	defer func() { done(success) }()

	stats := s.store.Statistics()
	success = true

	return &mcp.CallToolResultFor[apptype.GraphStatistics]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Graph has %d node(s) and %d edge(s)", stats.Nodes, stats.Edges)},
		},
		StructuredContent: stats,
	}, nil
}

func (s *MCPServer) handleExportGraph(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.ExportGraphArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("export_graph")
	var success bool
	defer func() { done(success) }()

	if params.Arguments.Path == "" {
		return nil, fmt.Errorf("path must not be empty")
	}

	if err := s.store.ExportJSON(params.Arguments.Path); err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Graph exported to %s", params.Arguments.Path)},
		},
	}, nil
}

func (s *MCPServer) handleSessionContext(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SessionContextArgs],
) (*mcp.CallToolResultFor[apptype.SessionContext], error) {
	done := metrics.TimeTool("session_context")
	var success bool
	defer func() { done(success) }()

	sc := s.resolver.SessionContext(params.Arguments.SessionID)
	success = true

	return &mcp.CallToolResultFor[apptype.SessionContext]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Session has %d recorded exchange(s)", len(sc.Entries))},
		},
		StructuredContent: sc,
	}, nil
}

func (s *MCPServer) handleSaveSnapshot(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.SaveSnapshotArgs],
) (*mcp.CallToolResultFor[any], error) {
	done := metrics.TimeTool("save_snapshot")
	var success bool
	defer func() { done(success) }()

	if s.snapshot == nil {
		return nil, fmt.Errorf("no snapshot store configured")
	}
	if err := s.snapshot.Save(ctx, s.store); err != nil {
		return nil, fmt.Errorf("snapshot save failed: %w", err)
	}
	success = true

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Snapshot saved"},
		},
	}, nil
}

func (s *MCPServer) handleHealth(
	ctx context.Context,
	session *mcp.ServerSession,
	params *mcp.CallToolParamsFor[apptype.HealthArgs],
) (*mcp.CallToolResultFor[apptype.HealthResult], error) {
	done := metrics.TimeTool("health_check")
	var success bool
	defer func() { done(success) }()

	nodes, _ := s.store.Counts()
	result := apptype.HealthResult{
		Name:          "satassist-go",
		Version:       buildinfo.Version,
		Revision:      buildinfo.Revision,
		BuildDate:     buildinfo.BuildDate,
		EmbeddingDims: s.dims,
		GraphNodes:    nodes,
	}
	success = true

	return &mcp.CallToolResultFor[apptype.HealthResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "ok"},
		},
		StructuredContent: result,
	}, nil
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *MCPServer) Run(ctx context.Context) error {
	transport := mcp.NewStdioTransport()
	return s.server.Run(ctx, transport)
}

// RunSSE serves MCP over SSE at addr/endpoint until ctx is cancelled.
func (s *MCPServer) RunSSE(ctx context.Context, addr, endpoint string) error {
	handler := mcp.NewSSEHandler(func(r *http.Request) *mcp.Server { return s.server })
	mux := http.NewServeMux()
	mux.Handle(endpoint, handler)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("SSE MCP server listening",
		zap.String("addr", addr), zap.String("endpoint", endpoint))
	return srv.ListenAndServe()
}
