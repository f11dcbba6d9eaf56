// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analyze turns one window of fetched articles into trend
// statistics, a weekly summary, and rule-based research suggestions.
// Implements: prd002-classify (R1-R2); prd003-impact (R1-R2);
//
//	prd004-trends (R1-R3); prd005-digest (R2-R4).
//
// Every function in this package is deterministic: same inputs produce
// bit-identical outputs. Nothing here reads the clock or mutates an
// input batch; callers can fan batches out and replay them freely.
package analyze

import (
	"sort"
	"strings"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// Classify returns the keyword groups matching one article. Matching is
// case-insensitive substring over the title, abstract, and MeSH terms
// (prd002-classify R1.1-R1.2). Matched keywords keep their configured
// spelling, listed alphabetically, each at most once per group (R1.3).
// Groups with no matches are absent from the returned map.
func Classify(a types.Article, groups []types.KeywordGroup) map[string][]string {
	text := matchText(a)
	tags := make(map[string][]string)
	for _, g := range groups {
		var matched []string
		seen := make(map[string]bool, len(g.Keywords))
		for _, kw := range g.Keywords {
			k := strings.ToLower(strings.TrimSpace(kw))
			if k == "" || seen[k] {
				continue
			}
			if strings.Contains(text, k) {
				matched = append(matched, strings.TrimSpace(kw))
				seen[k] = true
			}
		}
		if len(matched) > 0 {
			sort.Strings(matched)
			tags[g.Name] = matched
		}
	}
	return tags
}

// ClassifyBatch returns a copy of batch with Tags populated on every
// record, malformed ones included; the skip policy belongs to the
// aggregation stages (R2.2). The input slice is not modified.
func ClassifyBatch(batch []types.Article, groups []types.KeywordGroup) []types.Article {
	out := make([]types.Article, len(batch))
	for i, a := range batch {
		a.Tags = Classify(a, groups)
		out[i] = a
	}
	return out
}

// matchText builds the lowercase haystack for keyword matching: title,
// abstract, and MeSH terms joined by single spaces.
func matchText(a types.Article) string {
	parts := make([]string, 0, 2+len(a.MeSHTerms))
	parts = append(parts, a.Title, a.Abstract)
	parts = append(parts, a.MeSHTerms...)
	return strings.ToLower(strings.Join(parts, " "))
}
