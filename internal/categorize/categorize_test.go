package categorize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjhoekstra/florijn/internal/model"
	"github.com/mjhoekstra/florijn/internal/normalize"
	"github.com/mjhoekstra/florijn/internal/rules"
)

func newTestCategorizer(defs []model.RuleDefinition) *Categorizer {
	return New(rules.NewCache(defs), rules.NewCache(rules.Builtin()), normalize.New())
}

func userRule(pattern string, mt model.MatchType, category, name string, priority int) model.RuleDefinition {
	return model.RuleDefinition{
		Pattern:          pattern,
		MatchType:        mt,
		StandardizedName: name,
		Category:         category,
		Priority:         priority,
		Enabled:          true,
	}
}

func TestCategorizeContributorTagBypassesRules(t *testing.T) {
	// A user rule that would otherwise match the counter-party.
	c := newTestCategorizer([]model.RuleDefinition{
		userRule("github", model.MatchContains, "Software", "GitHub", 1),
	})

	tests := []struct {
		name     string
		tag      string
		wantName string
	}{
		{name: "github sponsors", tag: "github-sponsors", wantName: "GitHub Sponsors"},
		{name: "buy me a coffee", tag: "buymeacoffee", wantName: "Buy Me a Coffee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.Categorize(model.Transaction{
				CounterParty:   "GITHUB SPONSORS",
				ContributorTag: tt.tag,
			})
			assert.Equal(t, "Donations", result.Category)
			assert.Equal(t, tt.wantName, result.StandardizedName)
			assert.Equal(t, 1.0, result.Confidence)
			assert.Empty(t, result.MatchedPattern)
		})
	}
}

func TestCategorizeUserRuleWins(t *testing.T) {
	c := newTestCategorizer([]model.RuleDefinition{
		userRule("albert", model.MatchContains, "Boodschappen", "Albert Heijn", 50),
	})

	result := c.Categorize(model.Transaction{
		CounterParty: "ALBERT HEIJN 1308 amsterdam",
	})

	assert.Equal(t, "Boodschappen", result.Category)
	assert.Equal(t, "Albert Heijn", result.StandardizedName)
	assert.Equal(t, "albert", result.MatchedPattern)
	assert.Greater(t, result.Confidence, 0.0)
}

func TestCategorizeFallsBackToBuiltins(t *testing.T) {
	c := newTestCategorizer(nil)

	result := c.Categorize(model.Transaction{
		CounterParty: "NETFLIX INTERNATIONAL B.V.",
	})

	assert.Equal(t, "Streaming", result.Category)
	assert.Equal(t, "Netflix", result.StandardizedName)
	assert.Equal(t, 0.8, result.Confidence)
}

func TestCategorizeFallsBackToCleanedName(t *testing.T) {
	c := newTestCategorizer(nil)

	result := c.Categorize(model.Transaction{
		CounterParty: "BAKKERIJ JANSEN 1043",
		Description:  "betaalpas transactie",
	})

	assert.Empty(t, result.Category)
	assert.False(t, result.Categorized())
	assert.Equal(t, "Bakkerij Jansen", result.StandardizedName)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestCategorizeEmptyTransaction(t *testing.T) {
	c := newTestCategorizer(nil)

	result := c.Categorize(model.Transaction{})

	assert.Empty(t, result.Category)
	assert.Empty(t, result.StandardizedName)
	assert.Equal(t, 0.0, result.Confidence)
}

func TestSearchText(t *testing.T) {
	tests := []struct {
		name string
		txn  model.Transaction
		want string
	}{
		{
			name: "both fields",
			txn:  model.Transaction{CounterParty: "ALBERT HEIJN", Description: "Betaling 1308"},
			want: "albert heijn betaling 1308",
		},
		{
			name: "counter-party only",
			txn:  model.Transaction{CounterParty: "Jumbo"},
			want: "jumbo",
		},
		{
			name: "description only",
			txn:  model.Transaction{Description: "SEPA Incasso"},
			want: "sepa incasso",
		},
		{
			name: "both empty",
			txn:  model.Transaction{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchText(tt.txn))
		})
	}
}

func TestMatchConfidenceOrdering(t *testing.T) {
	searchText := "albert heijn 1308 amsterdam"

	equals := matchConfidence(model.MatchEquals, searchText)
	regex := matchConfidence(model.MatchRegex, searchText)
	starts := matchConfidence(model.MatchStartsWith, searchText)
	ends := matchConfidence(model.MatchEndsWith, searchText)
	contains := matchConfidence(model.MatchContains, searchText)

	assert.GreaterOrEqual(t, equals, regex)
	assert.GreaterOrEqual(t, regex, starts)
	assert.GreaterOrEqual(t, starts, ends)
	assert.GreaterOrEqual(t, ends, contains)
	assert.Equal(t, 1.0, equals)
}

func TestMatchConfidenceContainsDegradesWithLength(t *testing.T) {
	short := matchConfidence(model.MatchContains, "albert")
	long := matchConfidence(model.MatchContains, strings.Repeat("x", 500))
	floor := matchConfidence(model.MatchContains, strings.Repeat("x", 5000))

	assert.Greater(t, short, long)
	assert.InDelta(t, 0.75-float64(len("albert"))/1000, short, 1e-9)
	assert.Equal(t, 0.5, floor, "confidence floors at 0.5 for very long haystacks")
}

func TestCategorizeBatchPreservesOrder(t *testing.T) {
	c := newTestCategorizer([]model.RuleDefinition{
		userRule("jumbo", model.MatchContains, "Groceries", "Jumbo", 10),
	})

	txns := []model.Transaction{
		{CounterParty: "JUMBO UTRECHT"},
		{CounterParty: "ONBEKENDE WINKEL 12"},
		{CounterParty: "NETFLIX"},
	}

	results := c.CategorizeBatch(txns)
	require.Len(t, results, 3)
	assert.Equal(t, "Groceries", results[0].Category)
	assert.Empty(t, results[1].Category)
	assert.Equal(t, "Onbekende Winkel", results[1].StandardizedName)
	assert.Equal(t, "Streaming", results[2].Category)
}
