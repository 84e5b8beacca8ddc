// Package categorize assigns categories and standardized merchant names to
// transactions by walking a deterministic fallback chain.
package categorize

import (
	"math"
	"strings"

	"github.com/mjhoekstra/florijn/internal/model"
	"github.com/mjhoekstra/florijn/internal/normalize"
	"github.com/mjhoekstra/florijn/internal/rules"
)

// builtinConfidence is the fixed score for built-in fallback rule matches.
const builtinConfidence = 0.8

// contributorResults maps the fixed donation-platform tags to their
// category and display name. A tagged transaction bypasses all rules.
var contributorResults = map[string]model.CategorizationResult{
	"github-sponsors": {Category: "Donations", StandardizedName: "GitHub Sponsors", Confidence: 1.0},
	"buymeacoffee":    {Category: "Donations", StandardizedName: "Buy Me a Coffee", Confidence: 1.0},
}

// Categorizer walks the classification chain: contributor tag, user rules,
// built-in rules, then a cleaned-name-only fallback. It holds only immutable
// compiled state and is safe for concurrent use.
type Categorizer struct {
	userRules *rules.Cache
	builtin   *rules.Cache
	cleaner   *normalize.Normalizer
}

// New builds a categorizer over the given rule caches and normalizer.
func New(userRules, builtin *rules.Cache, cleaner *normalize.Normalizer) *Categorizer {
	return &Categorizer{
		userRules: userRules,
		builtin:   builtin,
		cleaner:   cleaner,
	}
}

// Categorize classifies a single transaction. The first step of the chain
// that produces a result wins; the final fallback always succeeds with a
// zero-confidence, name-only result.
func (c *Categorizer) Categorize(txn model.Transaction) model.CategorizationResult {
	if result, ok := contributorResults[txn.ContributorTag]; ok {
		return result
	}

	searchText := SearchText(txn)
	if searchText != "" {
		if rule, ok := c.userRules.FindMatch(searchText); ok {
			return model.CategorizationResult{
				Category:         rule.Category,
				StandardizedName: rule.StandardizedName,
				MatchedPattern:   rule.Pattern,
				Confidence:       matchConfidence(rule.MatchType, searchText),
			}
		}
		if rule, ok := c.builtin.FindMatch(searchText); ok {
			return model.CategorizationResult{
				Category:         rule.Category,
				StandardizedName: rule.StandardizedName,
				MatchedPattern:   rule.Pattern,
				Confidence:       builtinConfidence,
			}
		}
	}

	return model.CategorizationResult{
		StandardizedName: c.cleaner.Clean(txn.CounterParty),
		Confidence:       0,
	}
}

// CategorizeBatch classifies each transaction independently, preserving
// input order. Calls share no mutable state.
func (c *Categorizer) CategorizeBatch(txns []model.Transaction) []model.CategorizationResult {
	results := make([]model.CategorizationResult, len(txns))
	for i, txn := range txns {
		results[i] = c.Categorize(txn)
	}
	return results
}

// SearchText concatenates the non-empty counter-party and description
// fields, lowercased and trimmed, as the haystack for rule matching.
func SearchText(txn model.Transaction) string {
	parts := make([]string, 0, 2)
	if txn.CounterParty != "" {
		parts = append(parts, txn.CounterParty)
	}
	if txn.Description != "" {
		parts = append(parts, txn.Description)
	}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// matchConfidence scores a user-rule match by its match type. Exact matches
// score highest; contains is the weakest signal and degrades further on long
// haystacks, where incidental substring hits get likelier.
func matchConfidence(matchType model.MatchType, searchText string) float64 {
	switch matchType {
	case model.MatchEquals:
		return 1.0
	case model.MatchRegex:
		return 0.95
	case model.MatchStartsWith:
		return 0.85
	case model.MatchEndsWith:
		return 0.80
	case model.MatchContains:
		penalty := math.Min(0.25, float64(len(searchText))/1000)
		return math.Max(0.5, 0.75-penalty)
	}
	return 0
}
