package nlp

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	specialsRe   = regexp.MustCompile(`[^\w\s\-\.\?\!\,]`)
)

// Normalize lowercases the query, collapses runs of whitespace and replaces
// special characters with spaces. Hyphens, periods and basic punctuation
// survive because satellite names and coordinates depend on them.
func Normalize(query string) string {
	q := whitespaceRe.ReplaceAllString(strings.TrimSpace(query), " ")
	q = strings.ToLower(q)
	q = specialsRe.ReplaceAllString(q, " ")
	return q
}
