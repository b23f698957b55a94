package geospatial

import (
	"regexp"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

type spatialIntentBucket struct {
	intent   apptype.SpatialIntent
	patterns []*regexp.Regexp
}

func compileBucket(intent apptype.SpatialIntent, patterns ...string) spatialIntentBucket {
	b := spatialIntentBucket{intent: intent}
	for _, p := range patterns {
		b.patterns = append(b.patterns, regexp.MustCompile(`(?i)`+p))
	}
	return b
}

// spatialIntentBuckets are checked in declaration order; the first bucket
// with any matching pattern wins.
var spatialIntentBuckets = []spatialIntentBucket{
	compileBucket(apptype.SpatialDataCoverage,
		`coverage.*area`, `data.*available.*for`, `satellite.*coverage`,
		`extent.*of.*data`, `boundary.*of.*data`),
	compileBucket(apptype.SpatialLocationQuery,
		`where.*is`, `location.*of`, `find.*place`, `coordinates.*of`),
	compileBucket(apptype.SpatialAnalysis,
		`area.*calculation`, `distance.*between`, `spatial.*analysis`,
		`boundary.*analysis`, `overlap.*with`),
	compileBucket(apptype.SpatialDataDownload,
		`download.*data.*for`, `get.*data.*from`, `extract.*data.*for`),
}

// ClassifySpatialIntent returns the first matching spatial intent, falling
// back to general_spatial.
func ClassifySpatialIntent(text string) apptype.SpatialIntent {
	for _, bucket := range spatialIntentBuckets {
		for _, re := range bucket.patterns {
			if re.MatchString(text) {
				return bucket.intent
			}
		}
	}
	return apptype.SpatialGeneral
}
