// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/nephro-digest/internal/archive"
)

// archiveCmd groups the archive inspection subcommands.
var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect stored digests",
	Long: `Archive inspects the digest database. list shows one row per stored
digest; show prints the article roster of one digest by its ID.`,
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)

	rootCmd.AddCommand(archiveCmd)
}

// openStore opens the archive for a subcommand using the configured data
// directory.
func openStore() (*archive.Store, error) {
	cfg, err := pipelineConfig()
	if err != nil {
		return nil, err
	}
	return archive.NewStore(cfg.Archive)
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored digests, newest first",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	infos, err := store.ListDigests(context.Background())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("Archive is empty.")
		return nil
	}

	fmt.Printf("%-4s  %-24s  %-17s  %8s  %11s  %7s\n",
		"ID", "WINDOW", "CREATED", "ARTICLES", "HIGH-IMPACT", "SKIPPED")
	fmt.Println(strings.Repeat("-", 82))
	for _, info := range infos {
		fmt.Printf("%-4d  %-24s  %-17s  %8d  %11d  %7d\n",
			info.ID, info.Window,
			info.CreatedAt.Format("2006-01-02 15:04"),
			info.TotalArticles, info.HighImpact, info.Skipped)
	}
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the article roster of a stored digest",
	Args:  cobra.ExactArgs(1),
	RunE:  runArchiveShow,
}

func runArchiveShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid digest ID %q", args[0])
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	infos, err := store.ListDigests(ctx)
	if err != nil {
		return err
	}
	var found bool
	for _, info := range infos {
		if info.ID == id {
			fmt.Printf("Digest #%d  %s  (created %s)\n\n",
				info.ID, info.Window, info.CreatedAt.Format("2006-01-02 15:04"))
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("digest %d not found", id)
	}

	articles, err := store.Articles(ctx, id)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s  %-60s  %-22s  %s\n", "PMID", "TITLE", "JOURNAL", "TYPE")
	fmt.Println(strings.Repeat("-", 110))
	for _, a := range articles {
		marker := ""
		if a.HighImpact {
			marker = " *"
		}
		fmt.Printf("%-10s  %-60s  %-22s  %s%s\n",
			a.PMID, clip(a.Title, 60), clip(a.Journal, 22), a.Type, marker)
	}
	fmt.Printf("\n%d articles; * marks high-impact journals\n", len(articles))
	return nil
}

// clip shortens a string to max characters with an ellipsis.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
