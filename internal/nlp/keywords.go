package nlp

import "strings"

// stopwords is a compact English list tuned for short portal queries.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "are": {}, "but": {}, "not": {},
	"you": {}, "all": {}, "can": {}, "had": {}, "her": {}, "was": {},
	"one": {}, "our": {}, "out": {}, "has": {}, "him": {}, "his": {},
	"how": {}, "its": {}, "may": {}, "who": {}, "why": {}, "did": {},
	"get": {}, "let": {}, "say": {}, "she": {}, "too": {}, "use": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "with": {},
	"about": {}, "after": {}, "also": {}, "been": {}, "before": {},
	"being": {}, "between": {}, "both": {}, "could": {}, "does": {},
	"doing": {}, "down": {}, "during": {}, "each": {}, "from": {},
	"have": {}, "having": {}, "here": {}, "into": {}, "just": {},
	"like": {}, "more": {}, "most": {}, "other": {}, "over": {},
	"same": {}, "should": {}, "some": {}, "such": {}, "than": {},
	"that": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {},
	"under": {}, "until": {}, "very": {}, "were": {}, "while": {},
	"will": {}, "would": {}, "your": {}, "tell": {}, "show": {},
	"give": {}, "need": {}, "want": {}, "please": {},
}

// ExtractKeywords returns the meaningful tokens of a normalized query:
// longer than two characters, not a stopword, punctuation trimmed, first
// occurrence wins.
func ExtractKeywords(normalized string) []string {
	var keywords []string
	seen := make(map[string]struct{})

	for _, token := range strings.Fields(normalized) {
		token = strings.Trim(token, ".,?!-")
		if len(token) <= 2 {
			continue
		}
		if _, stop := stopwords[token]; stop {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}

	return keywords
}
