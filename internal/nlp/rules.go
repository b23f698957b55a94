package nlp

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// PatternRule binds one regular expression to the entity type its matches
// are labelled with. Rules are declared as data so the table can be extended
// without touching extraction logic.
type PatternRule struct {
	Pattern    string
	Label      apptype.EntityType
	Confidence float64
}

// DefaultRules covers the satellite, product and geographic vocabulary of
// the portal. Order matters: matches are emitted table-first, top to bottom.
func DefaultRules() []PatternRule {
	return []PatternRule{
		{Pattern: `(landsat|sentinel|modis|aster|cartosat|resourcesat|oceansat)`, Label: apptype.EntitySatellite, Confidence: 0.8},
		{Pattern: `(l1|l2|l3|l4)\s*(data|product)`, Label: apptype.EntitySatellite, Confidence: 0.8},
		{Pattern: `(visible|infrared|thermal|microwave)\s*(band|channel)`, Label: apptype.EntitySatellite, Confidence: 0.8},
		{Pattern: `(ndvi|ndwi|lst|sst|chlorophyll|aerosol)`, Label: apptype.EntityProduct, Confidence: 0.8},
		{Pattern: `(dem|dtm|dsm)`, Label: apptype.EntityProduct, Confidence: 0.8},
		{Pattern: `(precipitation|temperature|humidity)\s*(data|product)`, Label: apptype.EntityProduct, Confidence: 0.8},
		{Pattern: `(india|indian\s*ocean|arabian\s*sea|bay\s*of\s*bengal)`, Label: apptype.EntityGeo, Confidence: 0.8},
		{Pattern: `(state|district|city|region)\s*of\s*\w+`, Label: apptype.EntityGeo, Confidence: 0.8},
		{Pattern: `\d+\.?\d*\s*(north|south|east|west|n|s|e|w|lat|lon|latitude|longitude)`, Label: apptype.EntityGeo, Confidence: 0.8},
	}
}

type compiledRule struct {
	re         *regexp.Regexp
	label      apptype.EntityType
	confidence float64
}

// compileRules drops rules whose pattern fails to compile so one bad entry
// cannot disable the whole table.
func compileRules(rules []PatternRule, logger *zap.Logger) []compiledRule {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			logger.Warn("skipping entity rule with invalid pattern",
				zap.String("pattern", r.Pattern), zap.Error(err))
			continue
		}
		compiled = append(compiled, compiledRule{re: re, label: r.Label, confidence: r.Confidence})
	}
	return compiled
}
