// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// Window is the closed date range a digest covers. Start and End are
// calendar days; callers supply them explicitly so that every stage stays
// replayable without reading the wall clock.
type Window struct {
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// WindowEnding returns the window of daysBack days ending on end.
func WindowEnding(end time.Time, daysBack int) Window {
	end = end.UTC().Truncate(24 * time.Hour)
	return Window{Start: end.AddDate(0, 0, -daysBack), End: end}
}

// Days returns the window length in whole days.
func (w Window) Days() int {
	return int(w.End.Sub(w.Start) / (24 * time.Hour))
}

// String renders the window as "YYYY-MM-DD..YYYY-MM-DD".
func (w Window) String() string {
	return fmt.Sprintf("%s..%s", w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
}

// KeywordCount is one keyword with its article count. Ordered slices of
// KeywordCount preserve the count-descending, keyword-ascending ranking
// that maps would lose.
type KeywordCount struct {
	Keyword string `json:"keyword" yaml:"keyword"`
	Count   int    `json:"count" yaml:"count"`
}

// TrendStatistics is the aggregation output for one window of articles.
// Per prd004-trends R2.1-R2.6. All maps and slices are freshly allocated
// by the aggregator; an empty batch yields zero counts and empty (non-nil)
// collections rather than an error.
type TrendStatistics struct {
	// Window is the date range the batch covers.
	Window Window `json:"window" yaml:"window"`

	// TotalArticles counts the records that passed the identifier check.
	TotalArticles int `json:"total_articles" yaml:"total_articles"`

	// SkippedRecords counts malformed records (no usable identifier)
	// excluded from every other counter.
	SkippedRecords int `json:"skipped_records" yaml:"skipped_records"`

	// KeywordGroups maps each configured group name to its keyword counts,
	// ordered count-descending then keyword-ascending. Every configured
	// group is present; a group nothing matched has an empty list.
	KeywordGroups map[string][]KeywordCount `json:"keyword_groups" yaml:"keyword_groups"`

	// Journals counts articles per normalized journal name.
	Journals map[string]int `json:"journals" yaml:"journals"`

	// ArticleTypes counts articles per study design.
	ArticleTypes map[ArticleType]int `json:"article_types" yaml:"article_types"`

	// MeshTerms holds the top-N MeSH descriptors, ordered count-descending
	// then term-ascending, truncated to AnalysisConfig.MeshTopN.
	MeshTerms []KeywordCount `json:"mesh_terms" yaml:"mesh_terms"`

	// Categories counts articles per search category.
	Categories map[Category]int `json:"categories" yaml:"categories"`

	// CategoryKeywords counts keyword matches split by category, feeding
	// the cross-disciplinary suggestion rule.
	CategoryKeywords map[Category]map[string]int `json:"category_keywords" yaml:"category_keywords"`

	// DiagnosticTreatmentOverlap counts articles tagged in both the
	// diagnostics and treatments groups, feeding the methodological
	// suggestion rule.
	DiagnosticTreatmentOverlap int `json:"diagnostic_treatment_overlap" yaml:"diagnostic_treatment_overlap"`
}

// GroupTotal returns the sum of keyword counts recorded for one group.
func (s TrendStatistics) GroupTotal(group string) int {
	total := 0
	for _, kc := range s.KeywordGroups[group] {
		total += kc.Count
	}
	return total
}
