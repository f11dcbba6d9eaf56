// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nephro-digest/internal/archive"
	"github.com/pdiddy/nephro-digest/internal/pubmed"
	"github.com/pdiddy/nephro-digest/pkg/types"
)

// fetchCmd retrieves recent articles from PubMed and saves the batch.
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent nephrology articles from PubMed",
	Long: `Fetch runs every configured category query against the NCBI E-utilities
API over the search window and writes the combined batch to the data
directory as a YAML file named after the window end date. Each article
carries the category of the query that found it.

A failed query does not abort the run; the batch holds whatever the
remaining queries returned and the command exits nonzero.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("end", "", "window end date YYYY-MM-DD (default: today)")
	fetchCmd.Flags().Int("days-back", 0, "window length in days (default from config)")
	fetchCmd.Flags().Int("max-results", 0, "PMID cap per query (default from config)")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
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
	window := types.WindowEnding(end, cfg.Fetch.DaysBack)

	apiKey, email := credentials()
	client := pubmed.NewClient(cfg.Fetch, apiKey, email)
	result := client.FetchAll(context.Background(), window, os.Stdout)

	path, err := archive.SaveBatch(cfg.Archive.DataDir, window, result.Articles)
	if err != nil {
		return err
	}
	fmt.Printf("\nSaved %d articles to %s\n", len(result.Articles), path)

	if result.HasFailures() {
		return fmt.Errorf("%d of %d queries failed", len(result.Failed), len(cfg.Fetch.Queries))
	}
	return nil
}
