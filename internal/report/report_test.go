// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// --- test fixtures ---

func reportConfig() types.ReportConfig {
	return types.ReportConfig{
		Title:       "Nephrology Weekly Digest",
		TopJournals: 15,
		TopTypes:    10,
	}
}

func reportDigest() types.Digest {
	w := types.WindowEnding(time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), 7)

	highlights := []types.Article{
		{
			PMID:       "41234567",
			Title:      "Dapagliflozin and progression of chronic kidney disease",
			Journal:    "Kidney Int",
			PubDate:    types.PubDate{Year: 2026, Month: 8, Day: 12},
			Type:       types.TypeRCT,
			HighImpact: true,
			URL:        "https://pubmed.ncbi.nlm.nih.gov/41234567/",
		},
		{
			PMID:    "41234568",
			Title:   "Urinary biomarkers of acute kidney injury in neonates",
			Journal: "Renal failure",
			Type:    types.TypeOther,
		},
	}

	stats := types.TrendStatistics{
		Window:         w,
		TotalArticles:  4,
		SkippedRecords: 1,
		KeywordGroups: map[string][]types.KeywordCount{
			"treatments": {
				{Keyword: "dapagliflozin", Count: 4},
				{Keyword: "SGLT2 inhibitor", Count: 2},
			},
			"diagnostics": {},
		},
		Journals: map[string]int{
			"Kidney Int": 3,
			"Obscure J":  1,
		},
		ArticleTypes: map[types.ArticleType]int{
			types.TypeRCT:   2,
			types.TypeOther: 2,
		},
		MeshTerms: []types.KeywordCount{
			{Keyword: "Renal Insufficiency, Chronic", Count: 3},
		},
		Categories: map[types.Category]int{
			types.CategoryPediatric: 1,
			types.CategoryAdult:     3,
		},
	}

	return types.Digest{
		Summary: types.WeeklySummary{
			Window:          w,
			TotalArticles:   4,
			HighImpactCount: 1,
			SkippedRecords:  1,
			Categories:      stats.Categories,
			KeyFindings: []string{
				"Top topics: dapagliflozin (4), SGLT2 inhibitor (2)",
				"High-impact articles: 1 (Kidney Int)",
			},
			Highlights: highlights,
			Stats:      stats,
		},
		Suggestions: []types.Suggestion{
			{
				Kind:      types.SuggestResearchGap,
				Topic:     "diagnostics",
				Rationale: "no article this window matched any diagnostics keyword; the area may be underrepresented in current publishing",
				Evidence:  []types.Evidence{{Keyword: "diagnostics", Count: 0}},
			},
			{
				Kind:      types.SuggestCrossDisciplinary,
				Topic:     "dapagliflozin",
				Rationale: `"dapagliflozin" is active in both adult (3) and pediatric (1) literature; a comparative or lifespan study could bridge the two`,
				Evidence: []types.Evidence{
					{Keyword: "dapagliflozin", Count: 3, Category: types.CategoryAdult},
					{Keyword: "dapagliflozin", Count: 1, Category: types.CategoryPediatric},
				},
			},
		},
	}
}

// --- WriteText ---

func TestWriteTextSections(t *testing.T) {
	var buf bytes.Buffer
	WriteText(reportDigest(), reportConfig(), &buf)
	out := buf.String()

	for _, want := range []string{
		"Nephrology Weekly Digest",
		"2026-08-17..2026-08-24",
		"Total articles: 4 (1 skipped)",
		"High impact:    1",
		"Key findings",
		"- Top topics: dapagliflozin (4), SGLT2 inhibitor (2)",
		"Highlights",
		"Dapagliflozin and progression of chronic kidney disease",
		"* high-impact journal",
		"Keyword trends",
		"treatments",
		"dapagliflozin",
		"(no matches)",
		"Top journals",
		"Article types",
		"Top MeSH terms",
		"Renal Insufficiency, Chronic",
		"Suggestions",
		"[research-gap] diagnostics",
		"evidence: diagnostics (0)",
		"evidence: dapagliflozin (adult 3), dapagliflozin (pediatric 1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q", want)
		}
	}
}

func TestWriteTextTopJournalsCap(t *testing.T) {
	cfg := reportConfig()
	cfg.TopJournals = 1

	var buf bytes.Buffer
	WriteText(reportDigest(), cfg, &buf)

	// Obscure J only appears in the journal ranking, so the cap must
	// drop it entirely.
	if strings.Contains(buf.String(), "Obscure J") {
		t.Error("journal ranking not capped at TopJournals")
	}
}

func TestWriteTextEmptyDigest(t *testing.T) {
	var buf bytes.Buffer
	WriteText(types.Digest{}, reportConfig(), &buf)
	out := buf.String()

	if !strings.Contains(out, "Total articles: 0") {
		t.Errorf("empty digest output = %q", out)
	}
	if strings.Contains(out, "Suggestions") {
		t.Error("empty digest should not render a suggestions section")
	}
}

func TestWriteTextDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	WriteText(reportDigest(), reportConfig(), &first)
	WriteText(reportDigest(), reportConfig(), &second)
	if first.String() != second.String() {
		t.Error("text report differs between identical renders")
	}
}

// --- WriteJSON ---

func TestWriteJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(reportDigest(), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"summary\"") {
		t.Error("JSON output not indented")
	}

	var decoded types.Digest
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding JSON output: %v", err)
	}
	if decoded.Summary.TotalArticles != 4 || len(decoded.Suggestions) != 2 {
		t.Errorf("round trip = %d articles, %d suggestions",
			decoded.Summary.TotalArticles, len(decoded.Suggestions))
	}
}

// --- WriteYAML ---

func TestWriteYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(reportDigest(), &buf); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	var decoded types.Digest
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding YAML output: %v", err)
	}
	if decoded.Summary.Window.String() != "2026-08-17..2026-08-24" {
		t.Errorf("window = %q", decoded.Summary.Window.String())
	}
	if len(decoded.Suggestions) != 2 {
		t.Errorf("suggestions = %d, want 2", len(decoded.Suggestions))
	}
}

// --- WriteHTML ---

func TestWriteHTML(t *testing.T) {
	generatedAt := time.Date(2026, 8, 24, 7, 5, 0, 0, time.UTC)

	var buf bytes.Buffer
	if err := WriteHTML(reportDigest(), reportConfig(), generatedAt, &buf); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>Nephrology Weekly Digest - 2026-08-17..2026-08-24</title>",
		"dapagliflozin (4)",
		"High-impact journal",
		`href="https://pubmed.ncbi.nlm.nih.gov/41234567/"`,
		"[research-gap] diagnostics",
		"Generated at: 2026-08-24 07:05 UTC",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}
}

func TestWriteHTMLEscapesMarkup(t *testing.T) {
	d := reportDigest()
	d.Summary.Highlights[0].Title = `Outcomes <script>alert("x")</script> in CKD`

	var buf bytes.Buffer
	if err := WriteHTML(d, reportConfig(), time.Now(), &buf); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	if strings.Contains(buf.String(), "<script>alert") {
		t.Error("article title not escaped")
	}
}

func TestWriteHTMLDeterministic(t *testing.T) {
	generatedAt := time.Date(2026, 8, 24, 7, 5, 0, 0, time.UTC)

	var first, second bytes.Buffer
	if err := WriteHTML(reportDigest(), reportConfig(), generatedAt, &first); err != nil {
		t.Fatal(err)
	}
	if err := WriteHTML(reportDigest(), reportConfig(), generatedAt, &second); err != nil {
		t.Fatal(err)
	}
	if first.String() != second.String() {
		t.Error("HTML report differs between identical renders")
	}
}

// --- SaveReports ---

func TestSaveReports(t *testing.T) {
	cfg := reportConfig()
	cfg.OutputDir = filepath.Join(t.TempDir(), "reports")

	textPath, htmlPath, err := SaveReports(reportDigest(), cfg, time.Date(2026, 8, 24, 7, 5, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SaveReports: %v", err)
	}

	if filepath.Base(textPath) != "digest-2026-08-24.txt" {
		t.Errorf("textPath = %q", textPath)
	}
	if filepath.Base(htmlPath) != "digest-2026-08-24.html" {
		t.Errorf("htmlPath = %q", htmlPath)
	}

	text, err := os.ReadFile(textPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(text), "Nephrology Weekly Digest\n") {
		t.Errorf("text report starts with %q", string(text[:40]))
	}

	html, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(html), "<!DOCTYPE html>") {
		t.Error("HTML report missing doctype")
	}
}
