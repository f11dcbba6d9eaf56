package analyze

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

func aggregate(t *testing.T, batch []types.Article, cfg types.AnalysisConfig) types.TrendStatistics {
	t.Helper()
	stats, err := Aggregate(ClassifyBatch(batch, cfg.Groups), testWindow(), cfg)
	if err != nil {
		t.Fatalf("Aggregate error: %v", err)
	}
	return stats
}

func kinds(suggestions []types.Suggestion) []types.SuggestionKind {
	out := make([]types.SuggestionKind, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Kind
	}
	return out
}

// --- all-zero statistics ---

func TestSuggestAllZeroStatsYieldsOnlyGaps(t *testing.T) {
	cfg := testCfg()
	stats := aggregate(t, nil, cfg)

	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}

	if len(suggestions) != len(cfg.Groups) {
		t.Fatalf("len = %d, want one gap per group (%d)", len(suggestions), len(cfg.Groups))
	}
	for i, g := range cfg.Groups {
		s := suggestions[i]
		if s.Kind != types.SuggestResearchGap {
			t.Errorf("suggestions[%d].Kind = %s, want research-gap", i, s.Kind)
		}
		if s.Topic != g.Name {
			t.Errorf("suggestions[%d].Topic = %s, want %s (config order)", i, s.Topic, g.Name)
		}
	}
}

// --- research gaps ---

func TestSuggestGapOnlyForUnmatchedGroup(t *testing.T) {
	cfg := testCfg()

	// A busy window where treatments alone matches nothing: half the
	// titles carry a diagnostics keyword, half an outcomes keyword. The
	// gap list must name treatments once and leave the matched groups
	// alone, whatever the batch size.
	var batch []types.Article
	for i := 0; i < 50; i++ {
		title := fmt.Sprintf("Biomarker follow-up %d", i)
		cat := types.CategoryAdult
		if i%2 == 1 {
			title = fmt.Sprintf("Mortality cohort %d", i)
			cat = types.CategoryPediatric
		}
		batch = append(batch, art(fmt.Sprintf("%d", i+1), title, cat))
	}
	stats := aggregate(t, batch, cfg)

	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}

	var gaps []types.Suggestion
	for _, s := range suggestions {
		if s.Kind == types.SuggestResearchGap {
			gaps = append(gaps, s)
		}
	}
	if len(gaps) != 1 {
		t.Fatalf("gap suggestions = %d, want exactly 1", len(gaps))
	}
	if gaps[0].Topic != "treatments" {
		t.Errorf("gap topic = %s, want treatments", gaps[0].Topic)
	}
	if len(gaps[0].Evidence) != 1 || gaps[0].Evidence[0].Count != 0 {
		t.Errorf("gap evidence = %v, want a single zero count", gaps[0].Evidence)
	}
}

// --- rule interplay and ordering ---

func TestSuggestKindOrdering(t *testing.T) {
	cfg := testCfg() // emerging threshold 3, cross min 2, overlap 0.2

	batch := []types.Article{
		art("1", "Dapagliflozin and biomarker response", types.CategoryAdult),
		art("2", "Dapagliflozin with biomarker monitoring", types.CategoryAdult),
		art("3", "Dapagliflozin monotherapy", types.CategoryAdult),
		art("4", "Biomarker panels in children", types.CategoryPediatric),
		art("5", "Biomarker validation in a pediatric cohort", types.CategoryPediatric),
	}
	stats := aggregate(t, batch, cfg)

	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}

	// outcomes has no matches (gap); dapagliflozin 3 and biomarker 4 are
	// emerging; biomarker spans both categories; articles 1-2 pair
	// diagnostics with treatments (2/5 = 0.4 > 0.2).
	wantKinds := []types.SuggestionKind{
		types.SuggestResearchGap,
		types.SuggestEmergingTopic,
		types.SuggestEmergingTopic,
		types.SuggestCrossDisciplinary,
		types.SuggestMethodological,
	}
	if got := kinds(suggestions); !reflect.DeepEqual(got, wantKinds) {
		t.Fatalf("kinds = %v, want %v", got, wantKinds)
	}

	if suggestions[0].Topic != "outcomes" {
		t.Errorf("gap topic = %s, want outcomes", suggestions[0].Topic)
	}
	// Within emerging, stronger evidence first: biomarker (4) over
	// dapagliflozin (3).
	if suggestions[1].Topic != "biomarker" || suggestions[2].Topic != "dapagliflozin" {
		t.Errorf("emerging order = %s,%s, want biomarker,dapagliflozin",
			suggestions[1].Topic, suggestions[2].Topic)
	}
}

// --- cross-disciplinary ---

func TestSuggestCrossCitesBothCounts(t *testing.T) {
	cfg := testCfg()
	cfg.EmergingThreshold = 10 // keep the emerging rule quiet

	// 6 adult + 4 pediatric; dapagliflozin in 3 adult and 2 pediatric
	// titles, the rest matching nothing. The counts cited must be the
	// keyword's, not the category sizes.
	batch := []types.Article{
		art("1", "Dapagliflozin in diabetic kidney disease", types.CategoryAdult),
		art("2", "Dapagliflozin after transplantation", types.CategoryAdult),
		art("3", "Dapagliflozin dosing in CKD stage 4", types.CategoryAdult),
		art("4", "Glomerular anatomy revisited", types.CategoryAdult),
		art("5", "Renal perfusion imaging", types.CategoryAdult),
		art("6", "Dietary sodium in hypertension", types.CategoryAdult),
		art("7", "Dapagliflozin in pediatric nephrotic syndrome", types.CategoryPediatric),
		art("8", "Dapagliflozin tolerability in children", types.CategoryPediatric),
		art("9", "Growth outcomes on dialysis", types.CategoryPediatric),
		art("10", "Congenital anomalies of the kidney", types.CategoryPediatric),
	}
	stats := aggregate(t, batch, cfg)

	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}

	var cross []types.Suggestion
	for _, s := range suggestions {
		if s.Kind == types.SuggestCrossDisciplinary {
			cross = append(cross, s)
		}
	}
	if len(cross) != 1 {
		t.Fatalf("cross suggestions = %d, want 1", len(cross))
	}

	s := cross[0]
	if s.Topic != "dapagliflozin" {
		t.Errorf("Topic = %s, want dapagliflozin", s.Topic)
	}
	if !strings.Contains(s.Rationale, "adult (3)") || !strings.Contains(s.Rationale, "pediatric (2)") {
		t.Errorf("rationale does not cite both counts: %q", s.Rationale)
	}
	wantEv := []types.Evidence{
		{Keyword: "dapagliflozin", Count: 3, Category: types.CategoryAdult},
		{Keyword: "dapagliflozin", Count: 2, Category: types.CategoryPediatric},
	}
	if !reflect.DeepEqual(s.Evidence, wantEv) {
		t.Errorf("Evidence = %v, want %v", s.Evidence, wantEv)
	}
}

func TestSuggestCrossBelowThreshold(t *testing.T) {
	cfg := testCfg()
	cfg.EmergingThreshold = 10

	// Only one pediatric mention: below CrossMinCount of 2.
	batch := []types.Article{
		art("1", "Biomarker study one", types.CategoryAdult),
		art("2", "Biomarker study two", types.CategoryAdult),
		art("3", "Pediatric biomarker cohort", types.CategoryPediatric),
	}
	stats := aggregate(t, batch, cfg)

	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	for _, s := range suggestions {
		if s.Kind == types.SuggestCrossDisciplinary {
			t.Errorf("unexpected cross suggestion: %+v", s)
		}
	}
}

// --- emerging topics ---

func TestSuggestEmergingAbsoluteThreshold(t *testing.T) {
	cfg := testCfg() // threshold 3

	batch := []types.Article{
		art("1", "Finerenone one", types.CategoryAdult),
		art("2", "Finerenone two", types.CategoryAdult),
	}
	stats := aggregate(t, batch, cfg)
	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	for _, s := range suggestions {
		if s.Kind == types.SuggestEmergingTopic {
			t.Errorf("count 2 below threshold 3 fired: %+v", s)
		}
	}

	batch = append(batch, art("3", "Finerenone three", types.CategoryAdult))
	stats = aggregate(t, batch, cfg)
	suggestions, err = Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	found := false
	for _, s := range suggestions {
		if s.Kind == types.SuggestEmergingTopic && s.Topic == "finerenone" {
			found = true
		}
	}
	if !found {
		t.Error("count 3 at threshold 3 did not fire")
	}
}

func TestSuggestEmergingGrowthAgainstPrior(t *testing.T) {
	cfg := testCfg()
	cfg.EmergingThreshold = 10 // absolute rule quiet; growth only
	cfg.GrowthFraction = 0.5

	prior := aggregate(t, []types.Article{
		art("p1", "Finerenone baseline one", types.CategoryAdult),
		art("p2", "Finerenone baseline two", types.CategoryAdult),
	}, cfg)
	current := aggregate(t, []types.Article{
		art("c1", "Finerenone follow-up one", types.CategoryAdult),
		art("c2", "Finerenone follow-up two", types.CategoryAdult),
		art("c3", "Finerenone follow-up three", types.CategoryAdult),
		art("c4", "Finerenone follow-up four", types.CategoryAdult),
	}, cfg)

	// With prior stats: 2 -> 4 is +100%, past the 50% bar.
	suggestions, err := Suggest(current, &prior, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	var emerging []types.Suggestion
	for _, s := range suggestions {
		if s.Kind == types.SuggestEmergingTopic {
			emerging = append(emerging, s)
		}
	}
	if len(emerging) != 1 {
		t.Fatalf("emerging = %d, want 1", len(emerging))
	}
	if !strings.Contains(emerging[0].Rationale, "from 2 to 4") {
		t.Errorf("rationale = %q, want growth wording", emerging[0].Rationale)
	}

	// Without prior stats the growth rule cannot fire.
	suggestions, err = Suggest(current, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	for _, s := range suggestions {
		if s.Kind == types.SuggestEmergingTopic {
			t.Errorf("growth fired without prior stats: %+v", s)
		}
	}
}

func TestSuggestGrowthExactlyAtFractionDoesNotFire(t *testing.T) {
	cfg := testCfg()
	cfg.EmergingThreshold = 10
	cfg.GrowthFraction = 0.5

	prior := aggregate(t, []types.Article{
		art("p1", "Finerenone baseline one", types.CategoryAdult),
		art("p2", "Finerenone baseline two", types.CategoryAdult),
	}, cfg)
	current := aggregate(t, []types.Article{
		art("c1", "Finerenone follow-up one", types.CategoryAdult),
		art("c2", "Finerenone follow-up two", types.CategoryAdult),
		art("c3", "Finerenone follow-up three", types.CategoryAdult),
	}, cfg)

	// 2 -> 3 is exactly +50%: not beyond the fraction.
	suggestions, err := Suggest(current, &prior, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	for _, s := range suggestions {
		if s.Kind == types.SuggestEmergingTopic {
			t.Errorf("growth at exactly the fraction fired: %+v", s)
		}
	}
}

// --- methodological ---

func TestSuggestMethodologicalOverlap(t *testing.T) {
	cfg := testCfg() // overlap fraction 0.2
	cfg.EmergingThreshold = 10

	paired := types.Article{PMID: "1", Title: "Dapagliflozin response by biomarker strata",
		Journal: "Kidney Int", Category: types.CategoryAdult}
	plain := func(pmid string) types.Article {
		return art(pmid, "Renal anatomy", types.CategoryAdult)
	}

	// 1 of 5 articles paired: 0.2 is not above 0.2.
	stats := aggregate(t, []types.Article{paired, plain("2"), plain("3"), plain("4"), plain("5")}, cfg)
	suggestions, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	for _, s := range suggestions {
		if s.Kind == types.SuggestMethodological {
			t.Errorf("overlap at exactly the fraction fired: %+v", s)
		}
	}

	// 2 of 5 articles paired: 0.4 crosses the bar.
	paired2 := paired
	paired2.PMID = "6"
	stats = aggregate(t, []types.Article{paired, paired2, plain("2"), plain("3"), plain("4")}, cfg)
	suggestions, err = Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	var method []types.Suggestion
	for _, s := range suggestions {
		if s.Kind == types.SuggestMethodological {
			method = append(method, s)
		}
	}
	if len(method) != 1 {
		t.Fatalf("methodological = %d, want 1", len(method))
	}
	if !strings.Contains(method[0].Rationale, "2 of 5") {
		t.Errorf("rationale = %q, want overlap counts", method[0].Rationale)
	}
}

// --- config and determinism ---

func TestSuggestInvalidConfig(t *testing.T) {
	cfg := testCfg()
	cfg.CrossMinCount = 0
	_, err := Suggest(types.TrendStatistics{}, nil, cfg)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	cfg := testCfg()
	batch := []types.Article{
		art("1", "Dapagliflozin and biomarker response", types.CategoryAdult),
		art("2", "Biomarker panels in children", types.CategoryPediatric),
		art("3", "Mortality after dialysis initiation", types.CategoryAdult),
	}
	stats := aggregate(t, batch, cfg)

	first, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := Suggest(stats, nil, cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated suggest differs:\n%+v\n%+v", first, second)
	}
}
