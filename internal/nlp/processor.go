package nlp

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/embeddings"
	"github.com/orbitscope/satassist-go/internal/metrics"
)

// geospatialKeywords gates the geospatial pipeline: a query mentioning any
// of these is handed spatial treatment regardless of its classified intent.
var geospatialKeywords = []string{
	"location", "coordinates", "latitude", "longitude", "region", "area",
	"boundary", "map", "satellite", "imagery", "coverage", "extent",
	"polygon", "point", "geometry", "spatial", "geographic",
}

// Processor runs the full query understanding pipeline: normalize, extract
// entities, classify intent, pull keywords, gate geospatial handling and
// embed the normalized text exactly once.
type Processor struct {
	extractor  *Extractor
	classifier *Classifier
	provider   embeddings.Provider
	dims       int
	logger     *zap.Logger
}

func NewProcessor(extractor *Extractor, classifier *Classifier, provider embeddings.Provider, dims int, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dims <= 0 {
		dims = 384
	}
	return &Processor{
		extractor:  extractor,
		classifier: classifier,
		provider:   provider,
		dims:       dims,
		logger:     logger,
	}
}

// Process analyzes one query. It never returns an error: if anything inside
// the pipeline panics the degraded default analysis is returned instead.
func (p *Processor) Process(ctx context.Context, query string) (analysis apptype.QueryAnalysis) {
	done := metrics.TimeStage("nlp_process")
	var success bool
	defer func() { done(success) }()

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("query processing panicked, returning default analysis",
				zap.Any("panic", r), zap.String("query", query))
			analysis = p.defaultAnalysis(query)
		}
	}()

	normalized := Normalize(query)
	entities := p.extractor.Extract(ctx, normalized)
	intents := p.classifier.Classify(normalized)
	keywords := ExtractKeywords(normalized)

	analysis = apptype.QueryAnalysis{
		Raw:          query,
		Normalized:   normalized,
		Entities:     entities,
		Intents:      intents,
		Keywords:     keywords,
		IsGeospatial: isGeospatial(normalized),
		Embedding:    embeddings.EmbedOne(ctx, p.provider, normalized, p.dims),
		Confidence:   overallConfidence(entities, intents, keywords),
	}
	success = true
	return analysis
}

// Similarity computes the cosine similarity of two texts through the
// processor's embedding provider. Failures score 0.
func (p *Processor) Similarity(ctx context.Context, a, b string) float64 {
	if p.provider == nil {
		return 0
	}
	vecs, err := p.provider.Embed(ctx, []string{a, b})
	if err != nil || len(vecs) != 2 {
		p.logger.Warn("similarity embedding failed", zap.Error(err))
		return 0
	}
	return cosine(vecs[0], vecs[1])
}

func isGeospatial(normalized string) bool {
	for _, kw := range geospatialKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}

// overallConfidence blends entity, intent and keyword evidence 0.4/0.4/0.2.
func overallConfidence(entities []apptype.Entity, intents apptype.IntentScores, keywords []string) float64 {
	entityConf := 0.3
	if len(entities) > 0 {
		sum := 0.0
		for _, e := range entities {
			sum += e.Confidence
		}
		entityConf = sum / float64(len(entities))
	}

	intentConf := 0.3
	if len(intents) > 0 {
		intentConf = 0
		for _, score := range intents {
			if score > intentConf {
				intentConf = score
			}
		}
	}

	keywordConf := float64(len(keywords)) / 5
	if keywordConf > 1 {
		keywordConf = 1
	}

	conf := entityConf*0.4 + intentConf*0.4 + keywordConf*0.2
	if conf > 1 {
		conf = 1
	}
	return conf
}

func (p *Processor) defaultAnalysis(query string) apptype.QueryAnalysis {
	lowered := strings.ToLower(strings.TrimSpace(query))
	return apptype.QueryAnalysis{
		Raw:        query,
		Normalized: lowered,
		Entities:   nil,
		Intents:    apptype.IntentScores{apptype.IntentInformationQuery: 0.5},
		Keywords:   strings.Fields(lowered),
		Embedding:  embeddings.ZeroVector(p.dims),
		Confidence: 0.3,
	}
}

func cosine(a, b []float32) float64 {
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
