// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"sort"
	"strings"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// Aggregate computes TrendStatistics over one window of classified
// articles (prd004-trends R2.1-R2.6). Records without a usable identifier
// are skipped and counted, never dropped silently (R2.1). An empty batch
// is a normal quiet week: zero counts and empty collections, not an
// error. The batch is expected to carry Tags from ClassifyBatch;
// untagged records simply contribute no keyword counts.
func Aggregate(batch []types.Article, window types.Window, cfg types.AnalysisConfig) (types.TrendStatistics, error) {
	if err := ValidateConfig(cfg); err != nil {
		return types.TrendStatistics{}, err
	}

	stats := types.TrendStatistics{
		Window:           window,
		KeywordGroups:    make(map[string][]types.KeywordCount, len(cfg.Groups)),
		Journals:         make(map[string]int),
		ArticleTypes:     make(map[types.ArticleType]int),
		Categories:       make(map[types.Category]int),
		CategoryKeywords: make(map[types.Category]map[string]int),
	}

	groupCounts := make(map[string]map[string]int, len(cfg.Groups))
	for _, g := range cfg.Groups {
		groupCounts[g.Name] = make(map[string]int)
	}
	meshCounts := make(map[string]int)

	for _, a := range batch {
		if !a.Identified() {
			stats.SkippedRecords++
			continue
		}
		stats.TotalArticles++

		if j := normalizeJournal(a.Journal); j != "" {
			stats.Journals[j]++
		}
		typ := a.Type
		if typ == "" {
			typ = types.TypeOther
		}
		stats.ArticleTypes[typ]++
		if a.Category != "" {
			stats.Categories[a.Category]++
		}

		for group, kws := range a.Tags {
			counts, ok := groupCounts[group]
			if !ok {
				// tag from a group the config no longer carries
				continue
			}
			for _, kw := range kws {
				counts[kw]++
			}
			if a.Category == "" {
				continue
			}
			ck := stats.CategoryKeywords[a.Category]
			if ck == nil {
				ck = make(map[string]int)
				stats.CategoryKeywords[a.Category] = ck
			}
			for _, kw := range kws {
				ck[kw]++
			}
		}
		if len(a.Tags[cfg.DiagnosticsGroup]) > 0 && len(a.Tags[cfg.TreatmentsGroup]) > 0 {
			stats.DiagnosticTreatmentOverlap++
		}

		seen := make(map[string]bool, len(a.MeSHTerms))
		for _, term := range a.MeSHTerms {
			t := strings.TrimSpace(term)
			if t == "" || seen[t] {
				continue
			}
			seen[t] = true
			meshCounts[t]++
		}
	}

	for _, g := range cfg.Groups {
		stats.KeywordGroups[g.Name] = rankCounts(groupCounts[g.Name], 0)
	}
	stats.MeshTerms = rankCounts(meshCounts, cfg.MeshTopN)

	return stats, nil
}

// rankCounts turns a count map into a slice ordered count-descending,
// keyword-ascending (R2.2, R2.4). topN > 0 truncates the ranking. The
// result is empty, never nil, so encoded output stays stable.
func rankCounts(counts map[string]int, topN int) []types.KeywordCount {
	ranked := make([]types.KeywordCount, 0, len(counts))
	for k, c := range counts {
		ranked = append(ranked, types.KeywordCount{Keyword: k, Count: c})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}

// normalizeJournal trims and collapses whitespace runs to single spaces
// so that trivially different spellings count as one journal (R2.3).
func normalizeJournal(j string) string {
	return strings.Join(strings.Fields(j), " ")
}
