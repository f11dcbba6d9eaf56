// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the nephro-digest pipeline.
// Implements: prd001-fetch (Article, R3.1-R3.4);
//
//	prd002-classify (KeywordGroup, tag maps, R1.1-R1.3);
//	prd004-trends (TrendStatistics, R2.1-R2.6);
//	prd005-digest (WeeklySummary, Suggestion, R3.1-R3.6);
//	prd006-archive (StoredDigest inputs).
//
// See docs/ARCHITECTURE.md § Pipeline Interface, § Data Structures.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Category labels which search audience an article was fetched for.
type Category string

const (
	CategoryPediatric Category = "pediatric"
	CategoryAdult     Category = "adult"
)

// DisplayName returns the human-readable category label used in reports.
func (c Category) DisplayName() string {
	switch c {
	case CategoryPediatric:
		return "Pediatric Nephrology"
	case CategoryAdult:
		return "Adult Nephrology"
	default:
		return string(c)
	}
}

// ArticleType is the study design as declared by the source metadata.
// Per prd001-fetch R3.3 the type comes from the PublicationType list only;
// no inference from titles or abstracts.
type ArticleType string

const (
	TypeRCT              ArticleType = "rct"
	TypeMetaAnalysis     ArticleType = "meta-analysis"
	TypeSystematicReview ArticleType = "systematic-review"
	TypeCohortStudy      ArticleType = "cohort-study"
	TypeOther            ArticleType = "other"
)

// PubDate is a possibly partial publication date. PubMed records often carry
// only a year, or a year and month. A zero Year means the date is unknown.
type PubDate struct {
	Year  int `json:"year" yaml:"year"`
	Month int `json:"month,omitempty" yaml:"month,omitempty"`
	Day   int `json:"day,omitempty" yaml:"day,omitempty"`
}

// IsZero reports whether the date is entirely unknown.
func (d PubDate) IsZero() bool { return d.Year == 0 }

// Compare orders dates lexicographically by year, month, day. Missing
// components sort before known ones within the same year. Unknown dates
// compare equal to each other and before any known date.
func (d PubDate) Compare(o PubDate) int {
	if d.Year != o.Year {
		return d.Year - o.Year
	}
	if d.Month != o.Month {
		return d.Month - o.Month
	}
	return d.Day - o.Day
}

// String renders the date as YYYY, YYYY-MM, or YYYY-MM-DD depending on
// which components are known. An unknown date renders as the empty string.
func (d PubDate) String() string {
	switch {
	case d.Year == 0:
		return ""
	case d.Month == 0:
		return fmt.Sprintf("%04d", d.Year)
	case d.Day == 0:
		return fmt.Sprintf("%04d-%02d", d.Year, d.Month)
	default:
		return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
	}
}

// Article is one literature record as returned by the fetch stage and
// consumed by every downstream stage. Per prd001-fetch R3.1-R3.4.
type Article struct {
	// PMID is the PubMed identifier. Records without one are malformed
	// and are skipped (and counted) by the analysis stages.
	PMID string `json:"pmid" yaml:"pmid"`

	// Title is the article title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Abstract is the flattened abstract text. Labelled sections are
	// joined as "LABEL: text" in source order.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Authors lists authors as "Lastname Forename" in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Journal is the journal name, preferring the MEDLINE abbreviation
	// (e.g. "N Engl J Med") over the full title so that impact matching
	// per prd003-impact works against the configured journal list.
	Journal string `json:"journal" yaml:"journal"`

	// PubDate is the (possibly partial) publication date.
	PubDate PubDate `json:"pub_date" yaml:"pub_date"`

	// Type is the study design mapped from the PublicationType list.
	Type ArticleType `json:"type" yaml:"type"`

	// Keywords are the author-supplied keywords, if any.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`

	// MeSHTerms are the MeSH descriptor names attached to the record.
	MeSHTerms []string `json:"mesh_terms,omitempty" yaml:"mesh_terms,omitempty"`

	// DOI is the digital object identifier, when present.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// URL is the canonical PubMed page for the record.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`

	// Category records which configured search query found this article.
	Category Category `json:"category" yaml:"category"`

	// FetchedAt is when the record was retrieved (UTC).
	FetchedAt time.Time `json:"fetched_at" yaml:"fetched_at"`

	// Tags maps keyword-group name to the matched keywords, sorted
	// alphabetically. Populated by the classify stage (prd002-classify);
	// groups with no matches are absent.
	Tags map[string][]string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// HighImpact marks articles published in a configured high-impact
	// journal (prd003-impact).
	HighImpact bool `json:"high_impact" yaml:"high_impact"`
}

// Identified reports whether the record carries a usable identifier.
// Records failing this check are counted as skipped, never dropped silently.
func (a Article) Identified() bool { return strings.TrimSpace(a.PMID) != "" }
