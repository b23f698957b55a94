package nlp

import (
	"context"

	"go.uber.org/zap"

	"github.com/orbitscope/satassist-go/internal/apptype"
)

// Extractor combines an optional general-purpose recognizer with the
// domain rule table. It never fails: a broken recognizer just means
// fewer entities.
type Extractor struct {
	recognizer Recognizer
	rules      []compiledRule
	logger     *zap.Logger
}

func NewExtractor(recognizer Recognizer, rules []PatternRule, logger *zap.Logger) *Extractor {
	if recognizer == nil {
		recognizer = NopRecognizer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		recognizer: recognizer,
		rules:      compileRules(rules, logger),
		logger:     logger,
	}
}

// Extract returns recognizer entities followed by rule matches. Overlapping
// spans are kept as-is: a term can legitimately carry both a general and a
// domain label.
func (e *Extractor) Extract(ctx context.Context, normalized string) []apptype.Entity {
	var entities []apptype.Entity

	tagged, err := e.recognizer.Recognize(ctx, normalized)
	if err != nil {
		e.logger.Warn("entity recognizer failed, continuing with rule matches only", zap.Error(err))
	} else {
		entities = append(entities, tagged...)
	}

	for _, rule := range e.rules {
		for _, loc := range rule.re.FindAllStringIndex(normalized, -1) {
			entities = append(entities, apptype.Entity{
				Text:       normalized[loc[0]:loc[1]],
				Label:      rule.label,
				Start:      loc[0],
				End:        loc[1],
				Confidence: rule.confidence,
			})
		}
	}

	return entities
}
