// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// Summarize builds the WeeklySummary for one window: totals, category
// split, key findings, and the high-impact highlight list
// (prd005-digest R3.1-R3.6). stats must come from Aggregate over the
// same batch; the summary embeds it unchanged. Impact is derived from
// cfg.HighImpactJournals here, so callers need not run MarkHighImpact
// first.
func Summarize(batch []types.Article, stats types.TrendStatistics, cfg types.AnalysisConfig) (types.WeeklySummary, error) {
	if err := ValidateConfig(cfg); err != nil {
		return types.WeeklySummary{}, err
	}

	sum := types.WeeklySummary{
		Window:     stats.Window,
		Categories: make(map[types.Category]int),
		Stats:      stats,
	}

	var highlights []types.Article
	for _, a := range batch {
		if !a.Identified() {
			sum.SkippedRecords++
			continue
		}
		sum.TotalArticles++
		if a.Category != "" {
			sum.Categories[a.Category]++
		}
		if IsHighImpact(a.Journal, cfg.HighImpactJournals) {
			a.HighImpact = true
			highlights = append(highlights, a)
		}
	}
	sum.HighImpactCount = len(highlights)

	sortHighlights(highlights)
	if cfg.HighlightCap > 0 && len(highlights) > cfg.HighlightCap {
		highlights = highlights[:cfg.HighlightCap]
	}
	sum.Highlights = append([]types.Article{}, highlights...)

	sum.KeyFindings = keyFindings(sum, stats)
	return sum, nil
}

// sortHighlights orders newest first by publication date, undated records
// last, ties broken by title ascending (R3.3).
func sortHighlights(articles []types.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		di, dj := articles[i].PubDate, articles[j].PubDate
		switch {
		case di.IsZero() && dj.IsZero():
			return articles[i].Title < articles[j].Title
		case di.IsZero():
			return false
		case dj.IsZero():
			return true
		}
		if c := di.Compare(dj); c != 0 {
			return c > 0
		}
		return articles[i].Title < articles[j].Title
	})
}

// keyFindings derives the short observations shown at the top of a
// digest (R3.4). Each line is fully determined by the inputs.
func keyFindings(sum types.WeeklySummary, stats types.TrendStatistics) []string {
	findings := []string{}

	if top := topKeywords(stats, 3); len(top) > 0 {
		parts := make([]string, len(top))
		for i, kc := range top {
			parts[i] = fmt.Sprintf("%s (%d)", kc.Keyword, kc.Count)
		}
		findings = append(findings, "Top topics: "+strings.Join(parts, ", "))
	}

	if sum.HighImpactCount > 0 {
		line := fmt.Sprintf("High-impact articles: %d", sum.HighImpactCount)
		if venues := highlightVenues(sum.Highlights, 3); len(venues) > 0 {
			line += " (" + strings.Join(venues, ", ") + ")"
		}
		findings = append(findings, line)
	}

	rcts := stats.ArticleTypes[types.TypeRCT]
	metas := stats.ArticleTypes[types.TypeMetaAnalysis]
	if rcts > 0 || metas > 0 {
		findings = append(findings, fmt.Sprintf("Randomized trials: %d, meta-analyses: %d", rcts, metas))
	}

	return findings
}

// topKeywords merges every group's ranking into one global top-n list.
func topKeywords(stats types.TrendStatistics, n int) []types.KeywordCount {
	merged := make(map[string]int)
	for _, kcs := range stats.KeywordGroups {
		for _, kc := range kcs {
			merged[kc.Keyword] += kc.Count
		}
	}
	return rankCounts(merged, n)
}

// highlightVenues lists distinct journals in highlight order, at most n.
func highlightVenues(highlights []types.Article, n int) []string {
	seen := make(map[string]bool, len(highlights))
	var venues []string
	for _, a := range highlights {
		j := normalizeJournal(a.Journal)
		if j == "" || seen[j] {
			continue
		}
		seen[j] = true
		venues = append(venues, j)
		if len(venues) == n {
			break
		}
	}
	return venues
}
