// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// ErrInvalidConfig marks a configuration the analysis stages refuse to
// run with. Callers detect it with errors.Is.
var ErrInvalidConfig = errors.New("invalid analysis config")

// ValidateConfig checks cfg before any analysis runs. A bad threshold or
// an empty keyword group fails the whole run up front rather than
// producing silently skewed counts (prd004-trends R1.2).
func ValidateConfig(cfg types.AnalysisConfig) error {
	if len(cfg.Groups) == 0 {
		return fmt.Errorf("%w: no keyword groups configured", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(cfg.Groups))
	for _, g := range cfg.Groups {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("%w: keyword group with empty name", ErrInvalidConfig)
		}
		if seen[g.Name] {
			return fmt.Errorf("%w: duplicate keyword group %q", ErrInvalidConfig, g.Name)
		}
		seen[g.Name] = true
		if len(g.Keywords) == 0 {
			return fmt.Errorf("%w: keyword group %q has no keywords", ErrInvalidConfig, g.Name)
		}
		for _, kw := range g.Keywords {
			if strings.TrimSpace(kw) == "" {
				return fmt.Errorf("%w: keyword group %q contains an empty keyword", ErrInvalidConfig, g.Name)
			}
		}
	}
	if cfg.MeshTopN < 0 {
		return fmt.Errorf("%w: mesh_top_n is negative (%d)", ErrInvalidConfig, cfg.MeshTopN)
	}
	if cfg.EmergingThreshold < 1 {
		return fmt.Errorf("%w: emerging_threshold must be at least 1, got %d", ErrInvalidConfig, cfg.EmergingThreshold)
	}
	if cfg.GrowthFraction < 0 {
		return fmt.Errorf("%w: growth_fraction is negative (%g)", ErrInvalidConfig, cfg.GrowthFraction)
	}
	if cfg.CrossMinCount < 1 {
		return fmt.Errorf("%w: cross_min_count must be at least 1, got %d", ErrInvalidConfig, cfg.CrossMinCount)
	}
	if cfg.OverlapFraction < 0 || cfg.OverlapFraction > 1 {
		return fmt.Errorf("%w: overlap_fraction must be within [0,1], got %g", ErrInvalidConfig, cfg.OverlapFraction)
	}
	if cfg.HighlightCap < 0 {
		return fmt.Errorf("%w: highlight_cap is negative (%d)", ErrInvalidConfig, cfg.HighlightCap)
	}
	return nil
}
