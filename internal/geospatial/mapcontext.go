package geospatial

import (
	"fmt"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

const (
	defaultCenterLat = 20.5937
	defaultCenterLon = 78.9629
	defaultZoom      = 5
	coordinateZoom   = 8
	locationZoom     = 7
)

// BuildMapContext chooses a center and zoom from the extracted spatial
// elements and packs markers for an external renderer. Returns nil when
// there is nothing to show.
func BuildMapContext(coords []apptype.Coordinate, locations []apptype.NamedLocation) *apptype.MapContext {
	if len(coords) == 0 && len(locations) == 0 {
		return nil
	}

	mc := &apptype.MapContext{
		CenterLat: defaultCenterLat,
		CenterLon: defaultCenterLon,
		Zoom:      defaultZoom,
	}

	if len(coords) > 0 {
		var sumLat, sumLon float64
		for _, c := range coords {
			sumLat += c.Lat
			sumLon += c.Lon
		}
		mc.CenterLat = sumLat / float64(len(coords))
		mc.CenterLon = sumLon / float64(len(coords))
		mc.Zoom = coordinateZoom
	} else {
		for _, loc := range locations {
			if loc.Bounds != nil {
				mc.CenterLat, mc.CenterLon = loc.Bounds.Center()
				mc.Zoom = locationZoom
				break
			}
		}
	}

	for _, c := range coords {
		mc.Markers = append(mc.Markers, apptype.MapMarker{
			Lat:   c.Lat,
			Lon:   c.Lon,
			Label: fmt.Sprintf("Coordinates: %.4f, %.4f", c.Lat, c.Lon),
		})
	}
	for _, loc := range locations {
		if loc.Bounds != nil {
			mc.Regions = append(mc.Regions, *loc.Bounds)
		} else {
			mc.Markers = append(mc.Markers, apptype.MapMarker{
				Lat:   mc.CenterLat,
				Lon:   mc.CenterLon,
				Label: fmt.Sprintf("Location: %s", loc.Name),
			})
		}
	}

	return mc
}

// CoverageInfo summarizes which missions and products cover a spatial area.
type CoverageInfo struct {
	Satellites          []string `json:"satellitesAvailable"`
	DataProducts        []string `json:"dataProducts"`
	TemporalCoverage    string   `json:"temporalCoverage"`
	SpatialResolution   string   `json:"spatialResolution"`
	UpdateFrequency     string   `json:"updateFrequency"`
	RecommendedProducts []string `json:"recommendedProducts,omitempty"`
}

// DataCoverage reports the portal's standing coverage, with product
// recommendations keyed off whether the first coordinate sits over ocean.
func DataCoverage(coords []apptype.Coordinate) CoverageInfo {
	info := CoverageInfo{
		Satellites: []string{
			"Oceansat-2", "ResourceSat-2", "INSAT-3D",
			"Cartosat-2", "Sentinel-1", "Landsat-8",
		},
		DataProducts: []string{
			"Ocean Color", "Sea Surface Temperature",
			"Land Surface Temperature", "NDVI",
			"Precipitation", "Wind Speed",
		},
		TemporalCoverage:  "2008-present",
		SpatialResolution: "1km - 56m",
		UpdateFrequency:   "Daily to Weekly",
	}

	if len(coords) > 0 {
		if isOverOcean(coords[0].Lat, coords[0].Lon) {
			info.RecommendedProducts = []string{
				"Ocean Color Data", "Sea Surface Temperature",
				"Wave Height", "Ocean Winds",
			}
		} else {
			info.RecommendedProducts = []string{
				"Land Surface Temperature", "NDVI",
				"Land Cover", "Digital Elevation Model",
			}
		}
	}

	return info
}

// isOverOcean is a coarse Indian Ocean box check, not a land mask.
func isOverOcean(lat, lon float64) bool {
	return lat >= -40 && lat <= 30 && lon >= 20 && lon <= 120
}
