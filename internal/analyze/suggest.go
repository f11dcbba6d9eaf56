// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"fmt"
	"sort"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// Suggest derives research suggestions from one window's statistics
// (prd005-digest R4.1-R4.5). prior may be nil; when present it enables
// growth detection against the previous window (R4.2). Suggestions come
// out grouped by kind in a fixed order (research-gap, emerging-topic,
// cross-disciplinary, methodological), strongest evidence first within
// each kind, ties broken by topic (R4.5). On statistics with all-zero
// counts the result is exactly one research-gap suggestion per
// configured group.
func Suggest(stats types.TrendStatistics, prior *types.TrendStatistics, cfg types.AnalysisConfig) ([]types.Suggestion, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	out := []types.Suggestion{}
	out = append(out, gapSuggestions(stats, cfg)...)
	out = append(out, emergingSuggestions(stats, prior, cfg)...)
	out = append(out, crossSuggestions(stats, cfg)...)
	out = append(out, methodSuggestions(stats, cfg)...)
	return out, nil
}

// gapSuggestions reports each configured group with zero matches this
// window, in configuration order (R4.1).
func gapSuggestions(stats types.TrendStatistics, cfg types.AnalysisConfig) []types.Suggestion {
	var out []types.Suggestion
	for _, g := range cfg.Groups {
		if stats.GroupTotal(g.Name) > 0 {
			continue
		}
		out = append(out, types.Suggestion{
			Kind:      types.SuggestResearchGap,
			Topic:     g.Name,
			Rationale: fmt.Sprintf("no article this window matched any %s keyword; the area may be underrepresented in current publishing", g.Name),
			Evidence:  []types.Evidence{{Keyword: g.Name, Count: 0}},
		})
	}
	return out
}

// emergingSuggestions reports keywords at or above the absolute
// threshold, plus keywords that grew past GrowthFraction relative to the
// prior window (R4.2). Growth needs a positive prior count; a keyword
// absent last window only qualifies via the absolute threshold.
func emergingSuggestions(stats types.TrendStatistics, prior *types.TrendStatistics, cfg types.AnalysisConfig) []types.Suggestion {
	priorCounts := make(map[string]int)
	if prior != nil {
		for _, kcs := range prior.KeywordGroups {
			for _, kc := range kcs {
				priorCounts[kc.Keyword] += kc.Count
			}
		}
	}

	var out []types.Suggestion
	for _, g := range cfg.Groups {
		for _, kc := range stats.KeywordGroups[g.Name] {
			prev := priorCounts[kc.Keyword]
			grown := prev > 0 && float64(kc.Count-prev)/float64(prev) > cfg.GrowthFraction
			hot := kc.Count >= cfg.EmergingThreshold
			if !hot && !grown {
				continue
			}
			s := types.Suggestion{
				Kind:     types.SuggestEmergingTopic,
				Topic:    kc.Keyword,
				Evidence: []types.Evidence{{Keyword: kc.Keyword, Count: kc.Count}},
			}
			if grown {
				s.Rationale = fmt.Sprintf("%q rose from %d to %d mentions since the prior window", kc.Keyword, prev, kc.Count)
			} else {
				s.Rationale = fmt.Sprintf("%q appeared in %d articles this window (threshold %d)", kc.Keyword, kc.Count, cfg.EmergingThreshold)
			}
			out = append(out, s)
		}
	}
	sortSuggestions(out)
	return out
}

// crossSuggestions reports keywords active in both the pediatric and the
// adult literature at or above CrossMinCount each (R4.3). Evidence lists
// the larger count first.
func crossSuggestions(stats types.TrendStatistics, cfg types.AnalysisConfig) []types.Suggestion {
	ped := stats.CategoryKeywords[types.CategoryPediatric]
	adult := stats.CategoryKeywords[types.CategoryAdult]
	if len(ped) == 0 || len(adult) == 0 {
		return nil
	}

	keywords := make([]string, 0, len(ped))
	for kw := range ped {
		keywords = append(keywords, kw)
	}
	sort.Strings(keywords)

	var out []types.Suggestion
	for _, kw := range keywords {
		pc, ac := ped[kw], adult[kw]
		if pc < cfg.CrossMinCount || ac < cfg.CrossMinCount {
			continue
		}
		ev := []types.Evidence{
			{Keyword: kw, Count: ac, Category: types.CategoryAdult},
			{Keyword: kw, Count: pc, Category: types.CategoryPediatric},
		}
		if pc > ac {
			ev[0], ev[1] = ev[1], ev[0]
		}
		out = append(out, types.Suggestion{
			Kind:      types.SuggestCrossDisciplinary,
			Topic:     kw,
			Rationale: fmt.Sprintf("%q is active in both adult (%d) and pediatric (%d) literature; a comparative or lifespan study could bridge the two", kw, ac, pc),
			Evidence:  ev,
		})
	}
	sortSuggestions(out)
	return out
}

// methodSuggestions fires when diagnostics and treatments keywords
// co-occur in more than OverlapFraction of the batch (R4.4).
func methodSuggestions(stats types.TrendStatistics, cfg types.AnalysisConfig) []types.Suggestion {
	if stats.TotalArticles == 0 || stats.DiagnosticTreatmentOverlap == 0 {
		return nil
	}
	rate := float64(stats.DiagnosticTreatmentOverlap) / float64(stats.TotalArticles)
	if rate <= cfg.OverlapFraction {
		return nil
	}
	return []types.Suggestion{{
		Kind:  types.SuggestMethodological,
		Topic: cfg.DiagnosticsGroup + "+" + cfg.TreatmentsGroup,
		Rationale: fmt.Sprintf("%d of %d articles pair %s and %s keywords, pointing at study designs that evaluate treatments against diagnostic markers",
			stats.DiagnosticTreatmentOverlap, stats.TotalArticles, cfg.DiagnosticsGroup, cfg.TreatmentsGroup),
		Evidence: []types.Evidence{
			{Keyword: cfg.DiagnosticsGroup, Count: stats.DiagnosticTreatmentOverlap},
			{Keyword: cfg.TreatmentsGroup, Count: stats.DiagnosticTreatmentOverlap},
		},
	}}
}

// sortSuggestions orders strongest evidence first, ties by topic
// ascending. The sort is stable so equal suggestions keep rule order.
func sortSuggestions(s []types.Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		ti, tj := s[i].EvidenceTotal(), s[j].EvidenceTotal()
		if ti != tj {
			return ti > tj
		}
		return s[i].Topic < s[j].Topic
	})
}
