package apptype

// AskArgs represents the arguments for the ask tool
type AskArgs struct {
	Query     string `json:"query" jsonschema:"The free-text question to answer."`
	SessionID string `json:"sessionId,omitempty" jsonschema:"Conversation session id. Defaults to \"default\"."`
}

// IngestContentArgs represents the arguments for the ingest_content tool
type IngestContentArgs struct {
	Items []ContentItem `json:"items" jsonschema:"Content items to fold into the knowledge graph."`
}

// SearchGraphArgs represents the arguments for the search_graph tool
type SearchGraphArgs struct {
	Query string `json:"query" jsonschema:"Text to search the knowledge graph for."`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results to return (default 5)."`
}

// SearchGraphResult carries ranked similarity matches.
type SearchGraphResult struct {
	Results []SearchResult `json:"results"`
}

// RelatedEntitiesArgs represents the arguments for the related_entities tool
type RelatedEntitiesArgs struct {
	ID           string `json:"id" jsonschema:"Node id to expand from."`
	Relationship string `json:"relationship,omitempty" jsonschema:"Optional relationship label filter (1-hop only)."`
	Distance     int    `json:"distance,omitempty" jsonschema:"Hop distance (default 1)."`
}

// RelatedEntitiesResult lists the reachable nodes.
type RelatedEntitiesResult struct {
	Nodes []KnowledgeNode `json:"nodes"`
}

// FindPathsArgs represents the arguments for the find_paths tool
type FindPathsArgs struct {
	Source    string `json:"source" jsonschema:"Source node id."`
	Target    string `json:"target" jsonschema:"Target node id."`
	MaxLength int    `json:"maxLength,omitempty" jsonschema:"Maximum path length in hops (default 3)."`
}

// FindPathsResult lists node-id paths from source to target.
type FindPathsResult struct {
	Paths [][]string `json:"paths"`
}

// GraphStatsArgs represents the arguments for the graph_stats tool
type GraphStatsArgs struct{}

// ExportGraphArgs represents the arguments for the export_graph tool
type ExportGraphArgs struct {
	Path string `json:"path" jsonschema:"Filesystem path to write the JSON export to."`
}

// SessionContextArgs represents the arguments for the session_context tool
type SessionContextArgs struct {
	SessionID string `json:"sessionId,omitempty" jsonschema:"Session id to read. Defaults to \"default\"."`
}

// SaveSnapshotArgs represents the arguments for the save_snapshot tool
type SaveSnapshotArgs struct{}

// HealthArgs represents the arguments for the health_check tool
type HealthArgs struct{}

// HealthResult reports build and engine information.
type HealthResult struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Revision      string `json:"revision"`
	BuildDate     string `json:"buildDate"`
	EmbeddingDims int    `json:"embeddingDims"`
	GraphNodes    int    `json:"graphNodes"`
}
