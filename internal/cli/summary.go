package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/mjhoekstra/florijn/internal/model"
)

// RunStats aggregates the outcome of one classification run.
type RunStats struct {
	Categories  map[string]int
	Duration    time.Duration
	Total       int
	Categorized int
}

// NewRunStats tallies classification results for the summary box.
func NewRunStats(classifications []model.Classification, duration time.Duration) RunStats {
	stats := RunStats{
		Categories: make(map[string]int),
		Duration:   duration,
		Total:      len(classifications),
	}

	for _, c := range classifications {
		if !c.Result.Categorized() {
			continue
		}
		stats.Categorized++
		stats.Categories[c.Result.Category]++
	}

	return stats
}

// RenderRunSummary renders the post-run statistics box.
func RenderRunSummary(stats RunStats) string {
	percent := 0.0
	if stats.Total > 0 {
		percent = float64(stats.Categorized) / float64(stats.Total) * 100
	}

	summary := fmt.Sprintf("%s Classification complete!\n\n", FlorinIcon) +
		"📊 Statistics:\n" +
		fmt.Sprintf("  • Total transactions: %d\n", stats.Total) +
		fmt.Sprintf("  • Categorized: %d (%.1f%%)\n", stats.Categorized, percent) +
		fmt.Sprintf("  • Uncategorized: %d\n", stats.Total-stats.Categorized) +
		fmt.Sprintf("  • Time taken: %s\n", stats.Duration.Round(time.Millisecond))

	if top := topCategories(stats.Categories, 5); len(top) > 0 {
		summary += "\nTop categories:\n"
		for i, c := range top {
			summary += fmt.Sprintf("  %d. %s (%d transactions)\n", i+1, c.name, c.count)
		}
	}

	return RenderBox("Classification Complete", summary)
}

type categoryCount struct {
	name  string
	count int
}

func topCategories(categories map[string]int, limit int) []categoryCount {
	counts := make([]categoryCount, 0, len(categories))
	for name, count := range categories {
		counts = append(counts, categoryCount{name: name, count: count})
	}

	// Ties break alphabetically so the output is stable.
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].name < counts[j].name
	})

	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}
