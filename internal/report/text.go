// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report renders weekly digests as text, HTML, JSON, and YAML.
// Implements: prd007-report (R1-R4);
//
//	docs/ARCHITECTURE § Report.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// textMeshTop caps the MeSH section of the text report; the full ranked
// list stays in the digest itself.
const textMeshTop = 10

// WriteText renders d as the plain-text weekly report (R1.1-R1.2).
// Output is deterministic for a given digest.
func WriteText(d types.Digest, cfg types.ReportConfig, w io.Writer) {
	sum := d.Summary

	title := cfg.Title
	if title == "" {
		title = "Weekly Digest"
	}
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, sum.Window.String())
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Total articles: %d", sum.TotalArticles)
	if sum.SkippedRecords > 0 {
		fmt.Fprintf(w, " (%d skipped)", sum.SkippedRecords)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "High impact:    %d\n", sum.HighImpactCount)
	for _, cat := range []types.Category{types.CategoryPediatric, types.CategoryAdult} {
		fmt.Fprintf(w, "%-15s %d\n", cat.DisplayName()+":", sum.Categories[cat])
	}

	if len(sum.KeyFindings) > 0 {
		section(w, "Key findings")
		for _, f := range sum.KeyFindings {
			fmt.Fprintf(w, "- %s\n", f)
		}
	}

	if len(sum.Highlights) > 0 {
		section(w, "Highlights")
		fmt.Fprintf(w, "%-4s  %-60s  %-22s  %-10s  %s\n",
			"Rank", "Title", "Journal", "Date", "Type")
		fmt.Fprintln(w, strings.Repeat("-", 110))
		starred := false
		for i, a := range sum.Highlights {
			date := ""
			if !a.PubDate.IsZero() {
				date = a.PubDate.String()
			}
			marker := ""
			if a.HighImpact {
				marker = " *"
				starred = true
			}
			fmt.Fprintf(w, "%-4d  %-60s  %-22s  %-10s  %s%s\n",
				i+1, truncate(a.Title, 60), truncate(a.Journal, 22), date, a.Type, marker)
		}
		if starred {
			fmt.Fprintln(w, "\n* high-impact journal")
		}
	}

	section(w, "Keyword trends")
	for _, name := range sortedGroupNames(sum.Stats.KeywordGroups) {
		fmt.Fprintln(w, name)
		counts := sum.Stats.KeywordGroups[name]
		if len(counts) == 0 {
			fmt.Fprintln(w, "  (no matches)")
			continue
		}
		for _, kc := range counts {
			fmt.Fprintf(w, "  %-28s %d\n", kc.Keyword, kc.Count)
		}
	}

	if len(sum.Stats.Journals) > 0 {
		section(w, "Top journals")
		for _, kc := range rankMap(sum.Stats.Journals, cfg.TopJournals) {
			fmt.Fprintf(w, "  %-28s %d\n", truncate(kc.Keyword, 28), kc.Count)
		}
	}

	if len(sum.Stats.ArticleTypes) > 0 {
		section(w, "Article types")
		byType := make(map[string]int, len(sum.Stats.ArticleTypes))
		for k, v := range sum.Stats.ArticleTypes {
			byType[string(k)] = v
		}
		for _, kc := range rankMap(byType, cfg.TopTypes) {
			fmt.Fprintf(w, "  %-28s %d\n", kc.Keyword, kc.Count)
		}
	}

	if len(sum.Stats.MeshTerms) > 0 {
		section(w, "Top MeSH terms")
		mesh := sum.Stats.MeshTerms
		if len(mesh) > textMeshTop {
			mesh = mesh[:textMeshTop]
		}
		for _, kc := range mesh {
			fmt.Fprintf(w, "  %-40s %d\n", truncate(kc.Keyword, 40), kc.Count)
		}
	}

	if len(d.Suggestions) > 0 {
		section(w, "Suggestions")
		for _, s := range d.Suggestions {
			fmt.Fprintf(w, "[%s] %s\n", s.Kind, s.Topic)
			fmt.Fprintf(w, "    %s\n", s.Rationale)
			if line := formatEvidence(s.Evidence); line != "" {
				fmt.Fprintf(w, "    evidence: %s\n", line)
			}
		}
	}
}

// WriteJSON writes the digest as indented JSON to w (R4.1).
func WriteJSON(d types.Digest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// WriteYAML writes the digest as YAML to w (R4.2). The encoding matches
// what the archive stores, so a saved digest round-trips unchanged.
func WriteYAML(d types.Digest, w io.Writer) error {
	data, err := yaml.Marshal(d)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func section(w io.Writer, name string) {
	fmt.Fprintf(w, "\n%s\n%s\n", name, strings.Repeat("-", len(name)))
}

// sortedGroupNames orders keyword groups by name so that map iteration
// never leaks into the report.
func sortedGroupNames(groups map[string][]types.KeywordCount) []string {
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// rankMap orders map entries count-descending, name-ascending, keeping
// at most top entries when top > 0.
func rankMap(m map[string]int, top int) []types.KeywordCount {
	ranked := make([]types.KeywordCount, 0, len(m))
	for name, count := range m {
		ranked = append(ranked, types.KeywordCount{Keyword: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if top > 0 && len(ranked) > top {
		ranked = ranked[:top]
	}
	return ranked
}

func formatEvidence(evidence []types.Evidence) string {
	parts := make([]string, 0, len(evidence))
	for _, e := range evidence {
		if e.Category != "" {
			parts = append(parts, fmt.Sprintf("%s (%s %d)", e.Keyword, e.Category, e.Count))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d)", e.Keyword, e.Count))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
