package model

import (
	"fmt"
	"strings"
	"time"
)

// MatchType determines how a rule pattern is compared against search text.
type MatchType string

// Match type constants.
const (
	MatchContains   MatchType = "contains"
	MatchStartsWith MatchType = "starts_with"
	MatchEndsWith   MatchType = "ends_with"
	MatchEquals     MatchType = "equals"
	MatchRegex      MatchType = "regex"
)

// MatchTypes lists every supported match type in display order.
func MatchTypes() []MatchType {
	return []MatchType{MatchContains, MatchStartsWith, MatchEndsWith, MatchEquals, MatchRegex}
}

// ValidMatchType reports whether mt is a known match type.
func ValidMatchType(mt MatchType) bool {
	switch mt {
	case MatchContains, MatchStartsWith, MatchEndsWith, MatchEquals, MatchRegex:
		return true
	}
	return false
}

// RuleDefinition is a stored categorization rule before compilation.
// Lower priority values are checked first; ties keep insertion order.
type RuleDefinition struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Pattern          string
	MatchType        MatchType
	StandardizedName string
	Category         string
	ID               int64
	Priority         int
	Enabled          bool
}

// Validate ensures the definition has usable data before it is stored.
func (r *RuleDefinition) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("pattern is required")
	}
	if !ValidMatchType(r.MatchType) {
		return fmt.Errorf("unknown match type %q", r.MatchType)
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("category is required")
	}
	return nil
}
