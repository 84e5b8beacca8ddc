package model

import "time"

// CategorizationResult is the outcome of classifying a single transaction.
type CategorizationResult struct {
	Category         string
	StandardizedName string
	MatchedPattern   string // Pattern of the winning rule, empty for fallback results
	Confidence       float64
}

// Categorized reports whether any step of the chain assigned a category.
func (r CategorizationResult) Categorized() bool {
	return r.Category != ""
}

// Classification pairs a transaction with its result for history persistence.
type Classification struct {
	ClassifiedAt time.Time
	Transaction  Transaction
	Result       CategorizationResult
}

// RunSummary describes one persisted classification run.
type RunSummary struct {
	StartedAt   time.Time
	RunID       string
	Total       int
	Categorized int
}
