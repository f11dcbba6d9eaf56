// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nephro-digest/internal/archive"
	"github.com/pdiddy/nephro-digest/internal/report"
)

// reportCmd re-renders a stored digest without re-running the pipeline.
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a stored digest as text, HTML, JSON, or YAML",
	Long: `Report prints a digest from the archive. Without --window the most
recent digest is used; --window selects one by its date range as shown
by "nephro-digest archive list". The HTML rendering reuses the stored
generation time, so re-rendering an old digest reproduces it exactly.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().String("window", "", "digest window YYYY-MM-DD..YYYY-MM-DD (default: latest)")
	reportCmd.Flags().String("format", "text", "output format: text, html, json, or yaml")
	reportCmd.Flags().Bool("save", false, "also write report files to the output directory")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	windowFlag, _ := cmd.Flags().GetString("window")
	rec, err := lookupDigest(ctx, store, windowFlag)
	if errors.Is(err, archive.ErrNotFound) {
		return fmt.Errorf("no stored digest; run \"nephro-digest digest\" first")
	}
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "text":
		report.WriteText(rec.Digest, cfg.Report, os.Stdout)
	case "html":
		if err := report.WriteHTML(rec.Digest, cfg.Report, rec.CreatedAt, os.Stdout); err != nil {
			return err
		}
	case "json":
		if err := report.WriteJSON(rec.Digest, os.Stdout); err != nil {
			return err
		}
	case "yaml":
		if err := report.WriteYAML(rec.Digest, os.Stdout); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q: use text, html, json, or yaml", format)
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		textPath, htmlPath, err := report.SaveReports(rec.Digest, cfg.Report, rec.CreatedAt)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "reports: %s, %s\n", textPath, htmlPath)
	}
	return nil
}

// lookupDigest fetches the digest named by the --window flag, or the most
// recent one when the flag is empty.
func lookupDigest(ctx context.Context, store *archive.Store, windowFlag string) (*archive.DigestRecord, error) {
	if windowFlag == "" {
		return store.LatestDigest(ctx)
	}
	w, err := parseWindow(windowFlag)
	if err != nil {
		return nil, err
	}
	return store.DigestByWindow(ctx, w)
}
