// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package analyze

import (
	"strings"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// IsHighImpact reports whether journal names one of the configured
// high-impact venues. Both sides are compared exactly after trimming
// surrounding whitespace; case and interior spacing must match the
// configured entry (prd003-impact R1.2). An empty journal never matches,
// and an empty venue list matches nothing.
func IsHighImpact(journal string, venues []string) bool {
	j := strings.TrimSpace(journal)
	if j == "" {
		return false
	}
	for _, v := range venues {
		if j == strings.TrimSpace(v) {
			return true
		}
	}
	return false
}

// MarkHighImpact returns a copy of batch with HighImpact set on every
// record whose journal is in venues. Order is preserved; the input slice
// is not modified (R2.1).
func MarkHighImpact(batch []types.Article, venues []string) []types.Article {
	out := make([]types.Article, len(batch))
	for i, a := range batch {
		a.HighImpact = IsHighImpact(a.Journal, venues)
		out[i] = a
	}
	return out
}

// FilterHighImpact returns the articles published in a configured venue,
// in batch order, HighImpact set on each. The result is always a fresh
// slice (R2.2).
func FilterHighImpact(batch []types.Article, venues []string) []types.Article {
	out := make([]types.Article, 0)
	for _, a := range batch {
		if IsHighImpact(a.Journal, venues) {
			a.HighImpact = true
			out = append(out, a)
		}
	}
	return out
}
