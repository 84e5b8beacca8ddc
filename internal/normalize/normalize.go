// Package normalize canonicalizes raw bank counter-party strings into
// display-ready merchant names.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxNameLength bounds the length of a cleaned merchant name in runes.
const MaxNameLength = 40

// step is one compiled cleanup transformation. Steps run in order; the
// output of each feeds the next.
type step struct {
	re   *regexp.Regexp
	repl string
}

// Normalizer applies a fixed, ordered list of cleanup transformations to raw
// counter-party strings. All patterns compile exactly once in New; Clean
// never compiles and is safe for concurrent use.
type Normalizer struct {
	steps []step
}

// New compiles the transformation pipeline. Build one at startup and share
// it; constructing a Normalizer per call defeats the pre-compilation.
func New() *Normalizer {
	return &Normalizer{
		steps: []step{
			// Trailing numeric location codes: "ALBERT HEIJN 1308" -> "ALBERT HEIJN".
			{re: regexp.MustCompile(`\s+\d+$`), repl: ""},
			// Trailing short terminal codes with at least one digit:
			// "SHELL 44A3" -> "SHELL". Pure words survive.
			{re: regexp.MustCompile(`(?i)\s+[a-z]{0,3}\d[a-z0-9]{0,4}$`), repl: ""},
			// Stray separator punctuation collapses to a single space.
			{re: regexp.MustCompile(`[*_|]+`), repl: " "},
			{re: regexp.MustCompile(`\s{2,}`), repl: " "},
			// Payment-processor prefixes carry no merchant information.
			{re: regexp.MustCompile(`(?i)^(?:zettle|sumup|ccv|izettle|mollie|pay\.nl)\s+`), repl: ""},
		},
	}
}

// Clean runs the transformation pipeline over a raw counter-party string,
// then trims, title-cases, and truncates the result. Cleaning an already
// clean string returns it unchanged.
func (n *Normalizer) Clean(raw string) string {
	if raw == "" {
		return ""
	}

	name := raw
	for _, s := range n.steps {
		name = s.re.ReplaceAllString(name, s.repl)
	}
	name = strings.TrimSpace(name)

	// cases.Caser is stateful and not safe for concurrent use, so a fresh
	// one is created per call. The Dutch tag title-cases the IJ digraph
	// correctly ("ijsselstein" -> "IJsselstein").
	name = cases.Title(language.Dutch).String(name)

	if runes := []rune(name); len(runes) > MaxNameLength {
		name = strings.TrimSpace(string(runes[:MaxNameLength]))
	}
	return name
}
