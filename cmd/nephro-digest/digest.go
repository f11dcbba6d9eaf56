// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nephro-digest/internal/analyze"
	"github.com/pdiddy/nephro-digest/internal/archive"
	"github.com/pdiddy/nephro-digest/internal/pubmed"
	"github.com/pdiddy/nephro-digest/internal/report"
	"github.com/pdiddy/nephro-digest/pkg/types"
)

// digestCmd runs the complete weekly pipeline.
var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Run the full weekly digest pipeline",
	Long: `Digest runs the complete pipeline for one window: fetch articles,
classify them against the keyword groups, flag high-impact journals,
aggregate trend statistics, build the weekly summary and research
suggestions, store the digest in the archive, and write the text and
HTML reports.

With --batch the fetch step is skipped and the given batch file supplies
the articles; its embedded window replaces the computed one.
--high-impact-only restricts the whole digest to articles from the
configured journal list. Use "nephro-digest report" to print a stored
digest.`,
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().String("end", "", "window end date YYYY-MM-DD (default: today)")
	digestCmd.Flags().Int("days-back", 0, "window length in days (default from config)")
	digestCmd.Flags().Int("max-results", 0, "PMID cap per query (default from config)")
	digestCmd.Flags().String("batch", "", "reuse a saved batch file instead of fetching")
	digestCmd.Flags().Bool("high-impact-only", false, "digest only high-impact journal articles")
	digestCmd.Flags().Bool("stdout", false, "print the text report after the run")

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	if daysBack, _ := cmd.Flags().GetInt("days-back"); daysBack > 0 {
		cfg.Fetch.DaysBack = daysBack
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.Fetch.MaxResults = maxResults
	}

	endFlag, _ := cmd.Flags().GetString("end")
	end, err := parseEndDate(endFlag)
	if err != nil {
		return err
	}
	batchPath, _ := cmd.Flags().GetString("batch")
	highImpactOnly, _ := cmd.Flags().GetBool("high-impact-only")

	d, err := buildDigest(context.Background(), cfg, end, batchPath, highImpactOnly, os.Stdout)
	if err != nil {
		return err
	}

	if toStdout, _ := cmd.Flags().GetBool("stdout"); toStdout {
		fmt.Println()
		report.WriteText(d, cfg.Report, os.Stdout)
	}
	return nil
}

// buildDigest runs the pipeline stages in order for the window ending at
// end, writing progress lines to w. When batchPath is set the fetch stage
// is skipped; highImpactOnly narrows the batch to flagged articles before
// aggregation. The digest is archived and rendered before it is returned,
// so a success here means the run is fully persisted.
func buildDigest(ctx context.Context, cfg types.PipelineConfig, end time.Time, batchPath string, highImpactOnly bool, w io.Writer) (types.Digest, error) {
	window := types.WindowEnding(end, cfg.Fetch.DaysBack)

	var articles []types.Article
	if batchPath != "" {
		batchWindow, batch, err := archive.LoadBatch(batchPath)
		if err != nil {
			return types.Digest{}, err
		}
		if !batchWindow.End.IsZero() {
			window = batchWindow
		}
		articles = batch
		fmt.Fprintf(w, "loaded %d articles from %s\n", len(articles), batchPath)
	} else {
		apiKey, email := credentials()
		client := pubmed.NewClient(cfg.Fetch, apiKey, email)
		result := client.FetchAll(ctx, window, w)
		if result.HasFailures() {
			fmt.Fprintf(w, "warning: %d queries failed; digest covers partial data\n", len(result.Failed))
		}
		articles = result.Articles
		if _, err := archive.SaveBatch(cfg.Archive.DataDir, window, articles); err != nil {
			return types.Digest{}, err
		}
	}

	classified := analyze.ClassifyBatch(articles, cfg.Analysis.Groups)
	marked := analyze.MarkHighImpact(classified, cfg.Analysis.HighImpactJournals)
	if highImpactOnly {
		marked = analyze.FilterHighImpact(marked, cfg.Analysis.HighImpactJournals)
		fmt.Fprintf(w, "high-impact only: %d articles retained\n", len(marked))
	}

	stats, err := analyze.Aggregate(marked, window, cfg.Analysis)
	if err != nil {
		return types.Digest{}, err
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return types.Digest{}, err
	}
	defer store.Close()

	// The prior window's statistics feed the emerging-topic growth rule.
	// A first run has no prior; Suggest treats nil as "no comparison".
	prior, err := store.PriorStats(ctx, window.Start)
	if err != nil {
		return types.Digest{}, err
	}

	summary, err := analyze.Summarize(marked, stats, cfg.Analysis)
	if err != nil {
		return types.Digest{}, err
	}
	suggestions, err := analyze.Suggest(stats, prior, cfg.Analysis)
	if err != nil {
		return types.Digest{}, err
	}
	d := types.Digest{Summary: summary, Suggestions: suggestions}

	now := time.Now().UTC()
	id, err := store.SaveDigest(ctx, d, marked, now)
	if err != nil {
		return types.Digest{}, err
	}
	textPath, htmlPath, err := report.SaveReports(d, cfg.Report, now)
	if err != nil {
		return types.Digest{}, err
	}

	fmt.Fprintf(w, "archived digest #%d for %s (%d articles, %d high-impact)\n",
		id, window, summary.TotalArticles, summary.HighImpactCount)
	fmt.Fprintf(w, "reports: %s, %s\n", textPath, htmlPath)

	return d, nil
}
