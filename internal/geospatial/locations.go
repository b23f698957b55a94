package geospatial

import (
	"regexp"
	"strings"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(delhi|mumbai|kolkata|chennai|bangalore|hyderabad|pune|ahmedabad)\b`),
	regexp.MustCompile(`(?i)\b(maharashtra|karnataka|tamil nadu|rajasthan|uttar pradesh|gujarat)\b`),
	regexp.MustCompile(`(?i)\b(india|indian ocean|arabian sea|bay of bengal)\b`),
	regexp.MustCompile(`(?i)\b(\w+)\s+(district|state|city|region|area)\b`),
	regexp.MustCompile(`(?i)\b(north|south|east|west|central)\s+(india|indian)\b`),
}

var indiaBounds = apptype.BoundingBox{MinLat: 6.4627, MaxLat: 37.6, MinLon: 68.1766, MaxLon: 97.4025}

// knownBounds is a small gazetteer. Matching is by substring so "south
// india" and "new delhi" still resolve.
var knownBounds = map[string]apptype.BoundingBox{
	"india":     indiaBounds,
	"delhi":     {MinLat: 28.4, MaxLat: 28.9, MinLon: 76.8, MaxLon: 77.5},
	"mumbai":    {MinLat: 18.9, MaxLat: 19.3, MinLon: 72.7, MaxLon: 73.0},
	"bangalore": {MinLat: 12.8, MaxLat: 13.2, MinLon: 77.4, MaxLon: 77.8},
}

// gazetteerOrder fixes lookup order since map iteration is unordered and
// "india" is a substring magnet.
var gazetteerOrder = []string{"delhi", "mumbai", "bangalore", "india"}

// ExtractLocations finds place names. Confidence is a flat 0.7 because the
// patterns are broad. Bounds is nil for names outside the gazetteer.
func ExtractLocations(text string) []apptype.NamedLocation {
	var locations []apptype.NamedLocation
	for _, re := range locationPatterns {
		for _, m := range re.FindAllString(text, -1) {
			name := strings.TrimSpace(m)
			locations = append(locations, apptype.NamedLocation{
				Name:       name,
				Bounds:     lookupBounds(name),
				Confidence: 0.7,
			})
		}
	}
	return locations
}

func lookupBounds(name string) *apptype.BoundingBox {
	lowered := strings.ToLower(name)
	for _, key := range gazetteerOrder {
		if strings.Contains(lowered, key) {
			b := knownBounds[key]
			return &b
		}
	}
	return nil
}
