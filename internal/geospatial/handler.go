package geospatial

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
	"github.com/orbitscope/satassist-go/internal/metrics"
)

// Handler turns the spatial fragments of a query into a structured payload.
type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Process extracts coordinates, locations and a spatial intent from the
// normalized query text and assembles the map context. A panic anywhere in
// extraction degrades to an empty payload.
func (h *Handler) Process(analysis apptype.QueryAnalysis) (payload apptype.GeospatialPayload) {
	done := metrics.TimeStage("geospatial_process")
	var success bool
	defer func() { done(success) }()

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("geospatial processing panicked, returning empty payload",
				zap.Any("panic", r), zap.String("query", analysis.Normalized))
			payload = apptype.GeospatialPayload{SpatialIntent: apptype.SpatialGeneral}
		}
	}()

	coords := ExtractCoordinates(analysis.Normalized)
	locations := ExtractLocations(analysis.Normalized)
	intent := ClassifySpatialIntent(analysis.Normalized)

	payload = apptype.GeospatialPayload{
		Coordinates:    coords,
		Locations:      locations,
		SpatialIntent:  intent,
		Suggestions:    suggestions(coords, locations, intent),
		Map:            BuildMapContext(coords, locations),
		HasSpatialData: len(coords) > 0 || len(locations) > 0,
	}
	success = true
	return payload
}

// SpatialContext renders a one-line human summary of the payload.
func (h *Handler) SpatialContext(payload apptype.GeospatialPayload) string {
	if !payload.HasSpatialData {
		return "No specific spatial information detected in your query."
	}

	var parts []string
	if n := len(payload.Coordinates); n > 0 {
		parts = append(parts, fmt.Sprintf("Found %d coordinate location(s) in your query.", n))
	}
	if len(payload.Locations) > 0 {
		names := make([]string, 0, 3)
		for _, loc := range payload.Locations {
			if len(names) == 3 {
				break
			}
			names = append(names, loc.Name)
		}
		parts = append(parts, fmt.Sprintf("Identified locations: %s", strings.Join(names, ", ")))
	}
	parts = append(parts, fmt.Sprintf("This appears to be a %s query.",
		strings.ReplaceAll(string(payload.SpatialIntent), "_", " ")))

	return strings.Join(parts, " ")
}

// suggestions caps at five entries, intent hints first.
func suggestions(coords []apptype.Coordinate, locations []apptype.NamedLocation, intent apptype.SpatialIntent) []string {
	var out []string

	switch intent {
	case apptype.SpatialDataCoverage:
		out = append(out,
			"Check satellite data availability for your region",
			"View data coverage maps",
			"Browse available satellite products")
	case apptype.SpatialLocationQuery:
		out = append(out,
			"Use the map to explore the area",
			"Get precise coordinates",
			"Find nearby data points")
	}

	if len(coords) > 0 {
		out = append(out,
			"View data at these coordinates",
			"Check data quality for this location",
			"Download data for this area")
	}
	if len(locations) > 0 {
		out = append(out,
			fmt.Sprintf("Explore data for %s", locations[0].Name),
			"Get regional data statistics",
			"View historical data trends")
	}
	if len(coords) == 0 && len(locations) == 0 {
		out = append(out,
			"Specify coordinates or location name",
			"Use the map to select an area",
			"Browse data by region")
	}

	if len(out) > 5 {
		out = out[:5]
	}
	return out
}
