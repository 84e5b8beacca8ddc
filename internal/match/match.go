// Package match compiles rule patterns into reusable predicates.
package match

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/mjhoekstra/florijn/internal/model"
)

// Func reports whether a body of search text satisfies a compiled pattern.
type Func func(text string) bool

// Compile builds a case-insensitive predicate for the given match type and
// pattern. String comparisons lowercase the pattern once here and the text
// per call. Regex patterns compile once with the case-insensitive flag; a
// pattern that fails to compile yields a predicate that always reports
// false, logged here rather than surfaced to the classification path.
func Compile(matchType model.MatchType, pattern string) Func {
	lowered := strings.ToLower(pattern)

	switch matchType {
	case model.MatchContains:
		return func(text string) bool {
			return strings.Contains(strings.ToLower(text), lowered)
		}
	case model.MatchStartsWith:
		return func(text string) bool {
			return strings.HasPrefix(strings.ToLower(text), lowered)
		}
	case model.MatchEndsWith:
		return func(text string) bool {
			return strings.HasSuffix(strings.ToLower(text), lowered)
		}
	case model.MatchEquals:
		return func(text string) bool {
			return strings.EqualFold(text, pattern)
		}
	case model.MatchRegex:
		// Compile the raw pattern, not the lowered one: lowercasing regex
		// source flips character-class escapes like \D.
		re, err := regexp.Compile(CaseInsensitive(pattern))
		if err != nil {
			slog.Warn("disabling rule with invalid regex pattern",
				"pattern", pattern,
				"error", err)
			return never
		}
		return re.MatchString
	}

	slog.Warn("disabling rule with unknown match type", "match_type", matchType)
	return never
}

// never is the predicate for patterns that cannot match.
func never(string) bool { return false }

// CaseInsensitive prepends the case-insensitive flag unless the pattern
// already carries it.
func CaseInsensitive(pattern string) string {
	if strings.HasPrefix(pattern, "(?i)") {
		return pattern
	}
	return "(?i)" + pattern
}
