package nlp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	logger := zap.NewNop()
	return NewProcessor(
		NewExtractor(NopRecognizer{}, DefaultRules(), logger),
		NewClassifier(DefaultIntentRules(), logger),
		nil, 8, logger,
	)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "what is sst?", Normalize("  What   is SST?  "))
	assert.Equal(t, "coordinates 28.6, 77.2", Normalize("Coordinates 28.6, 77.2"))
	assert.Equal(t, "ndvi  100  of india", Normalize("NDVI @100% of India"))
}

func TestExtractDomainEntities(t *testing.T) {
	extractor := NewExtractor(NopRecognizer{}, DefaultRules(), zap.NewNop())
	entities := extractor.Extract(context.Background(), "download oceansat sst data for bay of bengal")

	labels := make(map[apptype.EntityType][]string)
	for _, e := range entities {
		labels[e.Label] = append(labels[e.Label], e.Text)
		assert.InDelta(t, 0.8, e.Confidence, 1e-9)
		assert.Equal(t, e.Text, "download oceansat sst data for bay of bengal"[e.Start:e.End])
	}

	assert.Contains(t, labels[apptype.EntitySatellite], "oceansat")
	assert.Contains(t, labels[apptype.EntityProduct], "sst")
	assert.Contains(t, labels[apptype.EntityGeo], "bay of bengal")
}

func TestExtractorDropsInvalidRule(t *testing.T) {
	rules := append(DefaultRules(), PatternRule{Pattern: `([unclosed`, Label: apptype.EntityGeo, Confidence: 0.8})
	extractor := NewExtractor(NopRecognizer{}, rules, zap.NewNop())

	entities := extractor.Extract(context.Background(), "sentinel imagery")
	require.NotEmpty(t, entities)
	assert.Equal(t, apptype.EntitySatellite, entities[0].Label)
}

func TestClassifyIntents(t *testing.T) {
	classifier := NewClassifier(DefaultIntentRules(), zap.NewNop())

	tests := []struct {
		query  string
		intent apptype.Intent
	}{
		{"how to download sst data, is the data available to retrieve?", apptype.IntentDataRequest},
		{"what is sst, explain and describe how does it work", apptype.IntentInformationQuery},
		{"error occurred, problem with download not working, troubleshoot", apptype.IntentTechnicalSupport},
	}
	for _, tt := range tests {
		scores := classifier.Classify(tt.query)
		assert.Equal(t, tt.intent, scores.Primary(), "query: %s", tt.query)
	}
}

func TestClassifyFallsBackToInformationQuery(t *testing.T) {
	classifier := NewClassifier(DefaultIntentRules(), zap.NewNop())
	scores := classifier.Classify("oceansat chlorophyll bengal")
	assert.InDelta(t, 0.5, scores[apptype.IntentInformationQuery], 1e-9)
	assert.Equal(t, apptype.IntentInformationQuery, scores.Primary())
}

func TestExtractKeywords(t *testing.T) {
	keywords := ExtractKeywords("what is the sea surface temperature data for the sea")
	assert.Equal(t, []string{"sea", "surface", "temperature", "data"}, keywords)
}

func TestProcessInformationQuery(t *testing.T) {
	p := newTestProcessor(t)
	analysis := p.Process(context.Background(), "What is sea surface temperature?")

	assert.Equal(t, "What is sea surface temperature?", analysis.Raw)
	assert.Equal(t, "what is sea surface temperature?", analysis.Normalized)
	assert.Equal(t, apptype.IntentInformationQuery, analysis.Intents.Primary())
	assert.False(t, analysis.IsGeospatial)
	assert.Greater(t, analysis.Confidence, 0.3)
	assert.LessOrEqual(t, analysis.Confidence, 1.0)
	require.Len(t, analysis.Embedding, 8)
}

func TestProcessGeospatialGate(t *testing.T) {
	p := newTestProcessor(t)
	assert.True(t, p.Process(context.Background(), "show the coverage map").IsGeospatial)
	assert.False(t, p.Process(context.Background(), "how do i reset my password").IsGeospatial)
}

func TestOverallConfidenceBlend(t *testing.T) {
	entities := []apptype.Entity{{Confidence: 0.8}, {Confidence: 1.0}}
	intents := apptype.IntentScores{apptype.IntentDataRequest: 0.4}
	keywords := []string{"a", "b", "c", "d", "e", "f"}

	// 0.9*0.4 + 0.4*0.4 + 1.0*0.2
	assert.InDelta(t, 0.72, overallConfidence(entities, intents, keywords), 1e-9)

	// No evidence at all degrades to the 0.3 floor on both weighted terms.
	assert.InDelta(t, 0.3*0.4+0.3*0.4, overallConfidence(nil, nil, nil), 1e-9)
}
