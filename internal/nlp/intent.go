package nlp

import (
	"regexp"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// IntentRule binds one phrasing pattern to a member of the closed intent set.
type IntentRule struct {
	Intent  apptype.Intent
	Pattern string
}

// DefaultIntentRules enumerates the phrasings behind each intent. A bucket's
// score is matched-patterns over total patterns for that intent, so adding a
// pattern dilutes its siblings.
func DefaultIntentRules() []IntentRule {
	return []IntentRule{
		{apptype.IntentDataRequest, `download.*data`},
		{apptype.IntentDataRequest, `get.*dataset`},
		{apptype.IntentDataRequest, `access.*data`},
		{apptype.IntentDataRequest, `retrieve.*data`},
		{apptype.IntentDataRequest, `where.*can.*find`},
		{apptype.IntentDataRequest, `how.*to.*download`},
		{apptype.IntentDataRequest, `data.*available`},

		{apptype.IntentInformationQuery, `what.*is`},
		{apptype.IntentInformationQuery, `explain`},
		{apptype.IntentInformationQuery, `describe`},
		{apptype.IntentInformationQuery, `tell.*me.*about`},
		{apptype.IntentInformationQuery, `information.*about`},
		{apptype.IntentInformationQuery, `details.*about`},
		{apptype.IntentInformationQuery, `how.*does.*work`},

		{apptype.IntentGeospatialQuery, `location.*of`},
		{apptype.IntentGeospatialQuery, `coordinates.*of`},
		{apptype.IntentGeospatialQuery, `map.*of`},
		{apptype.IntentGeospatialQuery, `coverage.*area`},
		{apptype.IntentGeospatialQuery, `satellite.*image`},
		{apptype.IntentGeospatialQuery, `boundary.*of`},
		{apptype.IntentGeospatialQuery, `region.*of`},

		{apptype.IntentTechnicalSupport, `error.*occurred`},
		{apptype.IntentTechnicalSupport, `problem.*with`},
		{apptype.IntentTechnicalSupport, `not.*working`},
		{apptype.IntentTechnicalSupport, `help.*with`},
		{apptype.IntentTechnicalSupport, `troubleshoot`},
		{apptype.IntentTechnicalSupport, `fix.*issue`},
		{apptype.IntentTechnicalSupport, `support`},

		{apptype.IntentNavigationHelp, `how.*to.*navigate`},
		{apptype.IntentNavigationHelp, `find.*page`},
		{apptype.IntentNavigationHelp, `where.*is.*menu`},
		{apptype.IntentNavigationHelp, `go.*to`},
		{apptype.IntentNavigationHelp, `access.*section`},
		{apptype.IntentNavigationHelp, `locate.*feature`},
	}
}

type compiledIntentRule struct {
	intent apptype.Intent
	re     *regexp.Regexp
}

// Classifier scores every intent in the closed set against a query.
type Classifier struct {
	rules       []compiledIntentRule
	bucketSizes map[apptype.Intent]int
}

func NewClassifier(rules []IntentRule, logger *zap.Logger) *Classifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Classifier{bucketSizes: make(map[apptype.Intent]int)}
	for _, r := range rules {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			logger.Warn("skipping intent rule with invalid pattern",
				zap.String("pattern", r.Pattern), zap.Error(err))
			continue
		}
		c.rules = append(c.rules, compiledIntentRule{intent: r.Intent, re: re})
		c.bucketSizes[r.Intent]++
	}
	return c
}

// Classify scores each intent as matched patterns over bucket size. When no
// score exceeds 0.3 the query defaults to an information query at 0.5.
func (c *Classifier) Classify(normalized string) apptype.IntentScores {
	matched := make(map[apptype.Intent]float64)
	for _, r := range c.rules {
		if r.re.MatchString(normalized) {
			matched[r.intent]++
		}
	}

	scores := make(apptype.IntentScores, len(apptype.Intents()))
	for _, intent := range apptype.Intents() {
		if size := c.bucketSizes[intent]; size > 0 {
			scores[intent] = matched[intent] / float64(size)
		} else {
			scores[intent] = 0
		}
	}

	confident := false
	for _, score := range scores {
		if score > 0.3 {
			confident = true
			break
		}
	}
	if !confident {
		scores[apptype.IntentInformationQuery] = 0.5
	}

	return scores
}
