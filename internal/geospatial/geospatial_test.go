package geospatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

func TestExtractDecimalPair(t *testing.T) {
	coords := ExtractCoordinates("show data for coordinates 28.6, 77.2")
	require.Len(t, coords, 1)
	assert.InDelta(t, 28.6, coords[0].Lat, 1e-9)
	assert.InDelta(t, 77.2, coords[0].Lon, 1e-9)
	assert.Equal(t, "decimal_degrees", coords[0].Format)
	assert.InDelta(t, 0.9, coords[0].Confidence, 1e-9)
}

func findFormat(coords []apptype.Coordinate, format string) (apptype.Coordinate, bool) {
	for _, c := range coords {
		if c.Format == format {
			return c, true
		}
	}
	return apptype.Coordinate{}, false
}

func TestExtractDMSSingleAxis(t *testing.T) {
	// The degree sign also satisfies the decimal-pair separator, so the
	// raw text yields a decimal reading alongside the DMS one.
	dms, ok := findFormat(ExtractCoordinates(`28° 36′ 50.0″ N`), "dms")
	require.True(t, ok)
	assert.InDelta(t, 28.61388888, dms.Lat, 1e-6)
	assert.Zero(t, dms.Lon)
	assert.InDelta(t, 0.8, dms.Confidence, 1e-9)

	dms, ok = findFormat(ExtractCoordinates(`77° 12′ 30″ w`), "dms")
	require.True(t, ok)
	assert.Zero(t, dms.Lat)
	assert.InDelta(t, -77.208333, dms.Lon, 1e-6)
}

func TestExtractDirectedPair(t *testing.T) {
	coords := ExtractCoordinates("imagery near 28.6 N, 77.2 E please")
	require.Len(t, coords, 1)
	assert.InDelta(t, 28.6, coords[0].Lat, 1e-9)
	assert.InDelta(t, 77.2, coords[0].Lon, 1e-9)
	assert.Equal(t, "directed_pair", coords[0].Format)

	coords = ExtractCoordinates("33.9 S 18.4 E")
	require.Len(t, coords, 1)
	assert.InDelta(t, -33.9, coords[0].Lat, 1e-9)
	assert.InDelta(t, 18.4, coords[0].Lon, 1e-9)

	// Two letters on the same axis are not a pair.
	assert.Empty(t, ExtractCoordinates("10 N 20 S"))
}

func TestExtractCoordinatesDiscardsOutOfRange(t *testing.T) {
	assert.Empty(t, ExtractCoordinates("value 95.0, 200.0 recorded"))
}

func TestExtractCoordinatesDeduplicates(t *testing.T) {
	coords := ExtractCoordinates("28.6, 77.2 and again 28.6004, 77.2004")
	assert.Len(t, coords, 1)
}

func TestDedupeIdempotent(t *testing.T) {
	coords := []apptype.Coordinate{
		{Lat: 28.6, Lon: 77.2},
		{Lat: 28.6004, Lon: 77.2004},
		{Lat: 19.07, Lon: 72.88},
		{Lat: 19.0704, Lon: 72.8804},
		{Lat: -33.86, Lon: 151.21},
	}

	once := dedupe(coords)
	require.Len(t, once, 3)
	assert.Equal(t, once, dedupe(once))
}

func TestExtractLocations(t *testing.T) {
	locations := ExtractLocations("rainfall over mumbai and bay of bengal")

	names := make([]string, len(locations))
	for i, loc := range locations {
		names[i] = loc.Name
		assert.InDelta(t, 0.7, loc.Confidence, 1e-9)
	}
	assert.Contains(t, names, "mumbai")
	assert.Contains(t, names, "bay of bengal")

	for _, loc := range locations {
		if loc.Name == "mumbai" {
			require.NotNil(t, loc.Bounds)
			assert.InDelta(t, 18.9, loc.Bounds.MinLat, 1e-9)
		}
		if loc.Name == "bay of bengal" {
			assert.Nil(t, loc.Bounds)
		}
	}
}

func TestClassifySpatialIntent(t *testing.T) {
	tests := []struct {
		text string
		want apptype.SpatialIntent
	}{
		{"satellite coverage area for gujarat", apptype.SpatialDataCoverage},
		{"where is the sensor located", apptype.SpatialLocationQuery},
		{"distance between these two stations", apptype.SpatialAnalysis},
		{"download sst data for this region", apptype.SpatialDataDownload},
		{"mumbai", apptype.SpatialGeneral},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifySpatialIntent(tt.text), "text: %s", tt.text)
	}
}

func TestBuildMapContext(t *testing.T) {
	assert.Nil(t, BuildMapContext(nil, nil))

	coords := []apptype.Coordinate{{Lat: 10, Lon: 70}, {Lat: 20, Lon: 80}}
	mc := BuildMapContext(coords, nil)
	require.NotNil(t, mc)
	assert.InDelta(t, 15, mc.CenterLat, 1e-9)
	assert.InDelta(t, 75, mc.CenterLon, 1e-9)
	assert.Equal(t, 8, mc.Zoom)
	assert.Len(t, mc.Markers, 2)

	bounds := &apptype.BoundingBox{MinLat: 18.9, MaxLat: 19.3, MinLon: 72.7, MaxLon: 73.0}
	mc = BuildMapContext(nil, []apptype.NamedLocation{{Name: "mumbai", Bounds: bounds}})
	require.NotNil(t, mc)
	assert.Equal(t, 7, mc.Zoom)
	assert.InDelta(t, 19.1, mc.CenterLat, 1e-9)
	assert.Len(t, mc.Regions, 1)
	assert.Empty(t, mc.Markers)
}

func TestDataCoverageRecommendations(t *testing.T) {
	info := DataCoverage(nil)
	assert.Empty(t, info.RecommendedProducts)
	assert.Equal(t, "2008-present", info.TemporalCoverage)

	ocean := DataCoverage([]apptype.Coordinate{{Lat: -10, Lon: 75}})
	assert.Contains(t, ocean.RecommendedProducts, "Wave Height")

	land := DataCoverage([]apptype.Coordinate{{Lat: 48.8, Lon: 2.3}})
	assert.Contains(t, land.RecommendedProducts, "NDVI")
}

func TestHandlerProcessScenarioA(t *testing.T) {
	h := NewHandler(zap.NewNop())
	payload := h.Process(apptype.QueryAnalysis{Normalized: "show data for coordinates 28.6, 77.2"})

	assert.True(t, payload.HasSpatialData)
	require.Len(t, payload.Coordinates, 1)
	assert.InDelta(t, 28.6, payload.Coordinates[0].Lat, 1e-9)
	assert.InDelta(t, 77.2, payload.Coordinates[0].Lon, 1e-9)
	require.NotNil(t, payload.Map)
	assert.LessOrEqual(t, len(payload.Suggestions), 5)
}

func TestSpatialContext(t *testing.T) {
	h := NewHandler(zap.NewNop())

	empty := h.SpatialContext(apptype.GeospatialPayload{})
	assert.Equal(t, "No specific spatial information detected in your query.", empty)

	payload := h.Process(apptype.QueryAnalysis{Normalized: "coordinates of mumbai"})
	ctx := h.SpatialContext(payload)
	assert.Contains(t, ctx, "mumbai")
	assert.Contains(t, ctx, "location query")
}
