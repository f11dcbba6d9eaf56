// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/nephro-digest/internal/analyze"
	"github.com/pdiddy/nephro-digest/internal/secrets"
	"github.com/pdiddy/nephro-digest/pkg/types"
)

// pipelineConfig returns the stock configuration overlaid with whatever the
// config file and NEPHRO_DIGEST_* environment provide. Keys absent from both
// keep their defaults, so a missing config file still yields a working
// nephrology pipeline.
func pipelineConfig() (types.PipelineConfig, error) {
	cfg := types.DefaultPipelineConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing configuration: %w", err)
	}
	if err := analyze.ValidateConfig(cfg.Analysis); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// credentials returns the NCBI API key and contact email. Both are optional;
// E-utilities accepts anonymous requests at a lower rate limit (prd001-fetch R5.2).
func credentials() (apiKey, email string) {
	return secrets.Get(loadedSecrets, "ncbi-api-key"),
		secrets.Get(loadedSecrets, "ncbi-email")
}

// parseEndDate interprets an --end flag value. Empty means now; WindowEnding
// truncates to a whole UTC day either way.
func parseEndDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid end date %q: use YYYY-MM-DD", s)
	}
	return t, nil
}

// parseWindow interprets a --window flag value in the form the archive
// listing prints, "YYYY-MM-DD..YYYY-MM-DD".
func parseWindow(s string) (types.Window, error) {
	start, end, ok := strings.Cut(s, "..")
	if !ok {
		return types.Window{}, fmt.Errorf("invalid window %q: use YYYY-MM-DD..YYYY-MM-DD", s)
	}
	st, err := time.Parse("2006-01-02", start)
	if err != nil {
		return types.Window{}, fmt.Errorf("invalid window start %q: use YYYY-MM-DD", start)
	}
	en, err := time.Parse("2006-01-02", end)
	if err != nil {
		return types.Window{}, fmt.Errorf("invalid window end %q: use YYYY-MM-DD", end)
	}
	return types.Window{Start: st, End: en}, nil
}
