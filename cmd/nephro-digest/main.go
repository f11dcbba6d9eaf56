// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nephro-digest CLI.
// Implements: prd001-fetch, prd002-classify, prd003-impact,
//             prd004-trends, prd005-digest, prd006-archive,
//             prd007-report (CLI surface).
// See docs/ARCHITECTURE § Pipeline Interface, § Project Structure.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nephro-digest/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds NCBI credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the nephro-digest CLI.
var rootCmd = &cobra.Command{
	Use:   "nephro-digest",
	Short: "Weekly nephrology literature digest from PubMed",
	Long: `nephro-digest tracks recent nephrology publications through the NCBI
E-utilities API and turns them into a weekly research digest: articles are
fetched per category query, classified against keyword groups, flagged when
they appear in high-impact journals, aggregated into trend statistics, and
summarized together with rule-based research suggestions.

Each pipeline stage is a subcommand: fetch, analyze, digest, report, and
archive. watch runs the digest on a cron schedule; serve exposes the stored
digests over HTTP.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nephro-digest.yaml or ~/.config/nephro-digest/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nephro-digest")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nephro-digest"))
		}
	}

	viper.SetEnvPrefix("NEPHRO_DIGEST")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
