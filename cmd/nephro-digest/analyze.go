// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nephro-digest/internal/analyze"
	"github.com/pdiddy/nephro-digest/internal/archive"
	"github.com/pdiddy/nephro-digest/pkg/types"
)

// analyzeCmd classifies a saved batch and prints its trend statistics
// without touching the archive.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Classify a saved batch and print its trend statistics",
	Long: `Analyze loads a batch file written by fetch, classifies the articles
against the configured keyword groups, flags high-impact journals, and
prints the aggregated trend statistics. Nothing is stored; use digest
for the full pipeline.

Without --batch the newest batch file in the data directory is used.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("batch", "", "batch file to analyze (default: newest in the data directory)")
	analyzeCmd.Flags().Bool("json", false, "print statistics as JSON")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	batchPath, _ := cmd.Flags().GetString("batch")
	if batchPath == "" {
		batchPath, err = archive.LatestBatch(cfg.Archive.DataDir)
		if errors.Is(err, archive.ErrNotFound) {
			return fmt.Errorf("no batch files in %s; run \"nephro-digest fetch\" first", cfg.Archive.DataDir)
		}
		if err != nil {
			return err
		}
	}

	window, batch, err := archive.LoadBatch(batchPath)
	if err != nil {
		return err
	}

	classified := analyze.ClassifyBatch(batch, cfg.Analysis.Groups)
	marked := analyze.MarkHighImpact(classified, cfg.Analysis.HighImpactJournals)
	stats, err := analyze.Aggregate(marked, window, cfg.Analysis)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}

	highImpact := len(analyze.FilterHighImpact(marked, cfg.Analysis.HighImpactJournals))
	printStats(os.Stdout, stats, highImpact)
	return nil
}

// printStats renders trend statistics as an indented text listing.
func printStats(w io.Writer, stats types.TrendStatistics, highImpact int) {
	fmt.Fprintf(w, "Trends for %s\n\n", stats.Window)
	fmt.Fprintf(w, "Articles:    %d", stats.TotalArticles)
	if stats.SkippedRecords > 0 {
		fmt.Fprintf(w, " (%d skipped)", stats.SkippedRecords)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "High impact: %d\n", highImpact)

	categories := make([]types.Category, 0, len(stats.Categories))
	for c := range stats.Categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, c := range categories {
		fmt.Fprintf(w, "%-12s %d\n", c.DisplayName()+":", stats.Categories[c])
	}

	groups := make([]string, 0, len(stats.KeywordGroups))
	for name := range stats.KeywordGroups {
		groups = append(groups, name)
	}
	sort.Strings(groups)
	for _, name := range groups {
		fmt.Fprintf(w, "\n%s:\n", name)
		counts := stats.KeywordGroups[name]
		if len(counts) == 0 {
			fmt.Fprintln(w, "  (no matches)")
			continue
		}
		for _, kc := range counts {
			fmt.Fprintf(w, "  %-40s %4d\n", kc.Keyword, kc.Count)
		}
	}

	fmt.Fprintf(w, "\nTop journals:\n")
	for _, kc := range rankCounts(stats.Journals, 10) {
		fmt.Fprintf(w, "  %-40s %4d\n", kc.Keyword, kc.Count)
	}

	fmt.Fprintf(w, "\nArticle types:\n")
	byType := make(map[string]int, len(stats.ArticleTypes))
	for t, n := range stats.ArticleTypes {
		byType[string(t)] = n
	}
	for _, kc := range rankCounts(byType, 0) {
		fmt.Fprintf(w, "  %-40s %4d\n", kc.Keyword, kc.Count)
	}

	if len(stats.MeshTerms) > 0 {
		fmt.Fprintf(w, "\nTop MeSH terms:\n")
		terms := stats.MeshTerms
		if len(terms) > 10 {
			terms = terms[:10]
		}
		for _, kc := range terms {
			fmt.Fprintf(w, "  %-40s %4d\n", kc.Keyword, kc.Count)
		}
	}
}

// rankCounts orders a counter map count-descending, name-ascending,
// keeping the top entries when top is positive.
func rankCounts(m map[string]int, top int) []types.KeywordCount {
	ranked := make([]types.KeywordCount, 0, len(m))
	for name, n := range m {
		ranked = append(ranked, types.KeywordCount{Keyword: name, Count: n})
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
