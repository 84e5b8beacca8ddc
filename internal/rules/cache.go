// Package rules compiles categorization rule definitions into an immutable,
// priority-ordered cache.
package rules

import (
	"sort"
	"strings"
	"time"

	"github.com/mjhoekstra/florijn/internal/match"
	"github.com/mjhoekstra/florijn/internal/model"
)

// CompiledRule is an immutable, pre-processed categorization rule. It is
// built once by NewCache and never mutated afterward, so it is safe to share
// by reference across any number of concurrent readers.
type CompiledRule struct {
	Pattern          string // lowercased at compile time
	MatchType        model.MatchType
	StandardizedName string
	Category         string
	Priority         int
	matcher          match.Func
}

// Matches reports whether the rule accepts the given search text.
func (r *CompiledRule) Matches(text string) bool {
	return r.matcher(text)
}

// Cache is an immutable snapshot of compiled rules sorted ascending by
// priority. Rule changes rebuild a whole new cache rather than mutating an
// existing one.
type Cache struct {
	builtAt time.Time
	rules   []CompiledRule
}

// NewCache compiles the enabled rule definitions and sorts them by priority.
// The sort is stable: rules tied on priority keep their definition order.
func NewCache(defs []model.RuleDefinition) *Cache {
	compiled := make([]CompiledRule, 0, len(defs))
	for _, def := range defs {
		if !def.Enabled {
			continue
		}
		compiled = append(compiled, CompiledRule{
			Pattern:          strings.ToLower(def.Pattern),
			MatchType:        def.MatchType,
			StandardizedName: def.StandardizedName,
			Category:         def.Category,
			Priority:         def.Priority,
			matcher:          match.Compile(def.MatchType, def.Pattern),
		})
	}

	sort.SliceStable(compiled, func(i, j int) bool {
		return compiled[i].Priority < compiled[j].Priority
	})

	return &Cache{rules: compiled, builtAt: time.Now()}
}

// FindMatch returns the first rule in priority order that accepts the search
// text. Rule counts are small, so a linear scan beats any index.
func (c *Cache) FindMatch(searchText string) (*CompiledRule, bool) {
	for i := range c.rules {
		if c.rules[i].Matches(searchText) {
			return &c.rules[i], true
		}
	}
	return nil, false
}

// Len returns the number of compiled rules.
func (c *Cache) Len() int {
	return len(c.rules)
}

// BuiltAt returns when the cache was built, for staleness checks by the
// owner.
func (c *Cache) BuiltAt() time.Time {
	return c.builtAt
}

// Rules returns the compiled rules in evaluation order. Callers must treat
// the slice as read-only.
func (c *Cache) Rules() []CompiledRule {
	return c.rules
}
