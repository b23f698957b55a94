package apptype

import "time"

// EntityType labels a typed span of query text. Values beyond the fixed
// constants are legal: NER capabilities contribute their own labels
// (e.g. GPE or ORG) untouched.
type EntityType string

const (
	EntitySatellite EntityType = "SATELLITE"
	EntityProduct   EntityType = "PRODUCT"
	EntityGeo       EntityType = "GEO"
	EntityLocation  EntityType = "LOCATION"
)

// Entity is a confidence-scored span extracted from normalized query text.
type Entity struct {
	Text       string     `json:"text"`
	Label      EntityType `json:"label"`
	Start      int        `json:"start"`
	End        int        `json:"end"`
	Confidence float64    `json:"confidence"`
}

// Intent is the closed set of query purposes the dispatcher routes on.
type Intent int

const (
	IntentInformationQuery Intent = iota
	IntentDataRequest
	IntentGeospatialQuery
	IntentTechnicalSupport
	IntentNavigationHelp
)

var intentNames = map[Intent]string{
	IntentInformationQuery: "information_query",
	IntentDataRequest:      "data_request",
	IntentGeospatialQuery:  "geospatial_query",
	IntentTechnicalSupport: "technical_support",
	IntentNavigationHelp:   "navigation_help",
}

func (i Intent) String() string {
	if s, ok := intentNames[i]; ok {
		return s
	}
	return "information_query"
}

// Intents enumerates every member of the closed set, in a fixed order.
func Intents() []Intent {
	return []Intent{
		IntentInformationQuery,
		IntentDataRequest,
		IntentGeospatialQuery,
		IntentTechnicalSupport,
		IntentNavigationHelp,
	}
}

// IntentScores maps each scored intent to a value in [0,1]. A populated
// score set always contains at least one positive entry.
type IntentScores map[Intent]float64

// Primary returns the argmax intent. Ties resolve in Intents() order so
// repeated calls over the same scores are deterministic.
func (s IntentScores) Primary() Intent {
	best := IntentInformationQuery
	bestScore := -1.0
	for _, intent := range Intents() {
		if score, ok := s[intent]; ok && score > bestScore {
			best = intent
			bestScore = score
		}
	}
	return best
}

// QueryAnalysis is the immutable result of running a raw query through the
// NLP front end. Created once per request, never persisted beyond the
// session window.
type QueryAnalysis struct {
	Raw          string       `json:"originalQuery"`
	Normalized   string       `json:"cleanedQuery"`
	Entities     []Entity     `json:"entities"`
	Intents      IntentScores `json:"intents"`
	Keywords     []string     `json:"keywords"`
	IsGeospatial bool         `json:"isGeospatial"`
	Embedding    []float32    `json:"-"`
	Confidence   float64      `json:"confidence"`
}

// Coordinate is a validated point parsed from a literal in query text.
type Coordinate struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Format     string  `json:"format"`
	RawText    string  `json:"rawText"`
	Confidence float64 `json:"confidence"`
}

// BoundingBox is a rectangular lat/lon region approximating a named
// location's extent.
type BoundingBox struct {
	MinLat float64 `json:"minLat"`
	MaxLat float64 `json:"maxLat"`
	MinLon float64 `json:"minLon"`
	MaxLon float64 `json:"maxLon"`
}

// Center returns the box centroid.
func (b BoundingBox) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// NamedLocation is a recognized place name. Bounds is nil when the name is
// not in the resolver's dictionary.
type NamedLocation struct {
	Name       string       `json:"name"`
	Bounds     *BoundingBox `json:"bounds,omitempty"`
	Confidence float64      `json:"confidence"`
}

// SpatialIntent labels the spatial sub-purpose of a query.
type SpatialIntent string

const (
	SpatialDataCoverage  SpatialIntent = "data_coverage"
	SpatialLocationQuery SpatialIntent = "location_query"
	SpatialAnalysis      SpatialIntent = "spatial_analysis"
	SpatialDataDownload  SpatialIntent = "data_download"
	SpatialGeneral       SpatialIntent = "general_spatial"
)

// MapMarker is one point for an external renderer.
type MapMarker struct {
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Label string  `json:"label"`
}

// MapContext carries center/zoom/marker data for an external map renderer.
// No pixels are rendered here.
type MapContext struct {
	CenterLat float64       `json:"centerLat"`
	CenterLon float64       `json:"centerLon"`
	Zoom      int           `json:"zoom"`
	Markers   []MapMarker   `json:"markers,omitempty"`
	Regions   []BoundingBox `json:"regions,omitempty"`
}

// GeospatialPayload is the structured spatial portion of a response.
type GeospatialPayload struct {
	Coordinates    []Coordinate    `json:"coordinates"`
	Locations      []NamedLocation `json:"locations"`
	SpatialIntent  SpatialIntent   `json:"spatialIntent"`
	Suggestions    []string        `json:"suggestions,omitempty"`
	Map            *MapContext     `json:"map,omitempty"`
	HasSpatialData bool            `json:"hasSpatialData"`
}

// KnowledgeNode is a node in the knowledge graph, owned exclusively by the
// graph store.
type KnowledgeNode struct {
	ID          string            `json:"id"`
	Type        string            `json:"type"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Embedding   []float32         `json:"embedding,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// KnowledgeEdge is a directed, labeled relationship between two nodes.
// Both endpoints must already exist when the edge is created.
type KnowledgeEdge struct {
	Source       string            `json:"source"`
	Target       string            `json:"target"`
	Relationship string            `json:"relationship"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// SearchResult pairs a node with its cosine similarity to the query.
type SearchResult struct {
	Node       KnowledgeNode `json:"node"`
	Similarity float64       `json:"similarity"`
}

// ContentItem is one crawled/processed document handed to graph ingestion.
type ContentItem struct {
	URL         string   `json:"url,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ContentType string   `json:"contentType,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
}

// GraphStatistics summarizes the graph's shape.
type GraphStatistics struct {
	Nodes             int       `json:"nodes"`
	Edges             int       `json:"edges"`
	EntityTypes       []string  `json:"entityTypes"`
	RelationshipTypes []string  `json:"relationshipTypes"`
	Components        int       `json:"connectedComponents"`
	Density           float64   `json:"density"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

// SourceRef cites one graph result backing an answer.
type SourceRef struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Type        string  `json:"type"`
	Relevance   float64 `json:"relevance"`
}

// Response is the structured per-intent answer returned to the caller.
type Response struct {
	Answer      string             `json:"answer"`
	Confidence  float64            `json:"confidence"`
	Sources     []SourceRef        `json:"sources"`
	Suggestions []string           `json:"suggestions"`
	Geospatial  *GeospatialPayload `json:"geospatialData,omitempty"`
}

// SessionEntry is one recorded query/response exchange.
type SessionEntry struct {
	Query     string    `json:"query"`
	Response  Response  `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionContext is the bounded rolling history for one session id.
type SessionContext struct {
	SessionID   string         `json:"sessionId"`
	Entries     []SessionEntry `json:"entries"`
	LastUpdated time.Time      `json:"lastUpdated"`
}
