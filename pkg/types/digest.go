// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// WeeklySummary is the narrative layer assembled on top of TrendStatistics.
// Per prd005-digest R3.1-R3.6. It carries no timestamp of its own: callers
// that persist or render a summary stamp it themselves, keeping the
// analysis stages deterministic.
type WeeklySummary struct {
	// Window is the date range the summary covers.
	Window Window `json:"window" yaml:"window"`

	// TotalArticles counts identified records in the batch.
	TotalArticles int `json:"total_articles" yaml:"total_articles"`

	// HighImpactCount counts articles flagged high-impact.
	HighImpactCount int `json:"high_impact_count" yaml:"high_impact_count"`

	// SkippedRecords counts malformed records excluded from the summary.
	SkippedRecords int `json:"skipped_records" yaml:"skipped_records"`

	// Categories counts identified records per search category.
	Categories map[Category]int `json:"categories" yaml:"categories"`

	// KeyFindings are short deterministic observations about the window:
	// leading topics, high-impact journal activity, evidence mix.
	KeyFindings []string `json:"key_findings" yaml:"key_findings"`

	// Highlights lists the high-impact articles, newest first, undated
	// records last, capped at AnalysisConfig.HighlightCap when positive.
	Highlights []Article `json:"highlights" yaml:"highlights"`

	// Stats embeds the statistics the summary was derived from.
	Stats TrendStatistics `json:"stats" yaml:"stats"`
}

// SuggestionKind labels one of the four rule families that produce
// research suggestions. Report ordering follows the declaration order here.
type SuggestionKind string

const (
	SuggestResearchGap       SuggestionKind = "research-gap"
	SuggestEmergingTopic     SuggestionKind = "emerging-topic"
	SuggestCrossDisciplinary SuggestionKind = "cross-disciplinary"
	SuggestMethodological    SuggestionKind = "methodological"
)

// Evidence is one keyword/count pair supporting a suggestion. Category is
// set when the count is scoped to one search category.
type Evidence struct {
	Keyword  string   `json:"keyword" yaml:"keyword"`
	Count    int      `json:"count" yaml:"count"`
	Category Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Suggestion is one rule-derived research direction. Per prd005-digest
// R4.1-R4.5 suggestions are fully determined by their inputs: same stats,
// same suggestions, in the same order.
type Suggestion struct {
	// Kind is the rule family that produced the suggestion.
	Kind SuggestionKind `json:"kind" yaml:"kind"`

	// Topic is the keyword or group the suggestion concerns.
	Topic string `json:"topic" yaml:"topic"`

	// Rationale is a one-sentence explanation citing the evidence counts.
	Rationale string `json:"rationale" yaml:"rationale"`

	// Evidence lists the keyword/count pairs behind the rationale.
	Evidence []Evidence `json:"evidence" yaml:"evidence"`
}

// EvidenceTotal sums the evidence counts; suggestions of the same kind are
// reported strongest first using this total.
func (s Suggestion) EvidenceTotal() int {
	total := 0
	for _, e := range s.Evidence {
		total += e.Count
	}
	return total
}

// Digest bundles the summary and its suggestions, the unit the archive
// stores and the report stage renders.
type Digest struct {
	Summary     WeeklySummary `json:"summary" yaml:"summary"`
	Suggestions []Suggestion  `json:"suggestions" yaml:"suggestions"`
}
