package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "nephro-digest/0.1"). Per prd001-fetch R5.2.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CategoryQuery pairs one search category with its E-utilities term.
// Per prd001-fetch R2.1-R2.3.
type CategoryQuery struct {
	// Category tags every article the query returns.
	Category Category `json:"category" yaml:"category" mapstructure:"category"`

	// Name is the human-readable query label used in progress output.
	Name string `json:"name" yaml:"name" mapstructure:"name"`

	// Term is the boolean E-utilities query. Whitespace runs are collapsed
	// before the term is sent, so multi-line terms are fine in config files.
	Term string `json:"term" yaml:"term" mapstructure:"term"`
}

// FetchConfig holds settings for the PubMed fetch stage.
// Per prd001-fetch R1.1-R1.4, R5.1-R5.4.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the E-utilities endpoint root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// DaysBack is the search window length in days (default 7).
	DaysBack int `json:"days_back" yaml:"days_back" mapstructure:"days_back"`

	// MaxResults caps the IDs requested per query (default 50).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// RequestsPerSecond paces E-utilities calls. NCBI allows 3/s without
	// an API key and 10/s with one (R5.1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Queries lists the category searches to run, in order.
	Queries []CategoryQuery `json:"queries" yaml:"queries" mapstructure:"queries"`
}

// KeywordGroup is one named set of trend keywords. Group order in
// AnalysisConfig.Groups is the report order, so it is a slice, not a map.
type KeywordGroup struct {
	Name     string   `json:"name" yaml:"name" mapstructure:"name"`
	Keywords []string `json:"keywords" yaml:"keywords" mapstructure:"keywords"`
}

// Default keyword group names. The suggestion rules refer to the
// diagnostics and treatments groups by these names unless overridden.
const (
	GroupTreatments  = "treatments"
	GroupDiagnostics = "diagnostics"
	GroupTopics      = "topics"
	GroupOutcomes    = "outcomes"
)

// AnalysisConfig holds the classification and aggregation settings shared
// by the analysis stages. Per prd002-classify R2.1, prd003-impact R1.1,
// prd004-trends R3.1-R3.3, prd005-digest R4.1-R4.5.
type AnalysisConfig struct {
	// Groups are the keyword groups, in report order. Matching is
	// case-insensitive substring over title, abstract, and MeSH terms.
	Groups []KeywordGroup `json:"groups" yaml:"groups" mapstructure:"groups"`

	// HighImpactJournals lists journal names matched exactly (after
	// whitespace trimming, case-sensitive) against Article.Journal.
	HighImpactJournals []string `json:"high_impact_journals" yaml:"high_impact_journals" mapstructure:"high_impact_journals"`

	// MeshTopN truncates the ranked MeSH list (default 30).
	MeshTopN int `json:"mesh_top_n" yaml:"mesh_top_n" mapstructure:"mesh_top_n"`

	// EmergingThreshold is the keyword count at which an emerging-topic
	// suggestion fires (default 3).
	EmergingThreshold int `json:"emerging_threshold" yaml:"emerging_threshold" mapstructure:"emerging_threshold"`

	// GrowthFraction is the fractional increase over the prior window at
	// which a keyword counts as emerging regardless of absolute count
	// (default 0.5, i.e. +50%).
	GrowthFraction float64 `json:"growth_fraction" yaml:"growth_fraction" mapstructure:"growth_fraction"`

	// CrossMinCount is the per-category minimum for a keyword to support
	// a cross-disciplinary suggestion (default 2).
	CrossMinCount int `json:"cross_min_count" yaml:"cross_min_count" mapstructure:"cross_min_count"`

	// OverlapFraction is the minimum fraction of the batch in which
	// diagnostics and treatments keywords co-occur before a
	// methodological suggestion fires (default 0.2).
	OverlapFraction float64 `json:"overlap_fraction" yaml:"overlap_fraction" mapstructure:"overlap_fraction"`

	// HighlightCap bounds WeeklySummary.Highlights. Zero means no cap.
	HighlightCap int `json:"highlight_cap" yaml:"highlight_cap" mapstructure:"highlight_cap"`

	// TreatmentsGroup and DiagnosticsGroup name the groups the
	// methodological rule inspects.
	TreatmentsGroup  string `json:"treatments_group" yaml:"treatments_group" mapstructure:"treatments_group"`
	DiagnosticsGroup string `json:"diagnostics_group" yaml:"diagnostics_group" mapstructure:"diagnostics_group"`
}

// ArchiveConfig holds settings for the digest archive.
// Per prd006-archive R1.1.
type ArchiveConfig struct {
	// DataDir is the directory holding the SQLite database and batch files.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`
}

// ReportConfig holds settings for report rendering.
// Per prd007-report R2.1-R2.4.
type ReportConfig struct {
	// Title heads text and HTML reports.
	Title string `json:"title" yaml:"title" mapstructure:"title"`

	// OutputDir receives rendered report files.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// TopJournals bounds the journal ranking shown in reports (default 15).
	TopJournals int `json:"top_journals" yaml:"top_journals" mapstructure:"top_journals"`

	// TopTypes bounds the article-type ranking shown in reports (default 10).
	TopTypes int `json:"top_types" yaml:"top_types" mapstructure:"top_types"`
}

// WatchConfig holds settings for the scheduled digest loop.
type WatchConfig struct {
	// Schedule is a five-field cron expression (default "0 7 * * 1",
	// Mondays at 07:00).
	Schedule string `json:"schedule" yaml:"schedule" mapstructure:"schedule"`

	// Timezone is an IANA zone name for the schedule. Empty means local.
	Timezone string `json:"timezone" yaml:"timezone" mapstructure:"timezone"`
}

// ServeConfig holds settings for the dashboard server.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Fetch    FetchConfig    `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Analysis AnalysisConfig `json:"analysis" yaml:"analysis" mapstructure:"analysis"`
	Archive  ArchiveConfig  `json:"archive" yaml:"archive" mapstructure:"archive"`
	Report   ReportConfig   `json:"report" yaml:"report" mapstructure:"report"`
	Watch    WatchConfig    `json:"watch" yaml:"watch" mapstructure:"watch"`
	Serve    ServeConfig    `json:"serve" yaml:"serve" mapstructure:"serve"`
}

// DefaultPipelineConfig returns the stock configuration for every stage.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Fetch:    DefaultFetchConfig(),
		Analysis: DefaultAnalysisConfig(),
		Archive:  DefaultArchiveConfig(),
		Report:   DefaultReportConfig(),
		Watch:    DefaultWatchConfig(),
		Serve:    DefaultServeConfig(),
	}
}

// DefaultFetchConfig returns the stock PubMed fetch settings: the NCBI
// E-utilities endpoint, a seven-day window, and the two nephrology
// category queries.
func DefaultFetchConfig() FetchConfig {
	return FetchConfig{
		HTTPConfig: HTTPConfig{
			Timeout:   30 * time.Second,
			UserAgent: "nephro-digest/0.1",
		},
		BaseURL:           "https://eutils.ncbi.nlm.nih.gov/entrez/eutils",
		DaysBack:          7,
		MaxResults:        50,
		RequestsPerSecond: 3,
		Queries: []CategoryQuery{
			{
				Category: CategoryPediatric,
				Name:     "Pediatric Nephrology",
				Term: `(pediatric nephrology[MeSH Terms] OR
					child kidney disease[Title/Abstract] OR
					pediatric kidney[Title/Abstract] OR
					childhood nephropathy[Title/Abstract] OR
					pediatric renal[Title/Abstract] OR
					children kidney[Title/Abstract] OR
					neonatal kidney[Title/Abstract] OR
					adolescent nephrology[Title/Abstract])
					AND
					(clinical trial[Publication Type] OR
					randomized controlled trial[Publication Type] OR
					meta-analysis[Publication Type] OR
					systematic review[Publication Type] OR
					cohort study[Title/Abstract] OR
					prospective study[Title/Abstract] OR
					multicenter study[Title/Abstract])`,
			},
			{
				Category: CategoryAdult,
				Name:     "Adult Nephrology",
				Term: `(nephrology[MeSH Terms] OR
					kidney disease[MeSH Terms] OR
					renal insufficiency[MeSH Terms] OR
					chronic kidney disease[Title/Abstract] OR
					acute kidney injury[Title/Abstract] OR
					glomerulonephritis[Title/Abstract] OR
					dialysis[Title/Abstract] OR
					kidney transplantation[Title/Abstract])
					NOT
					(pediatric[Title/Abstract] OR
					children[Title/Abstract] OR
					child[Title/Abstract] OR
					neonatal[Title/Abstract] OR
					adolescent[Title/Abstract])
					AND
					(clinical trial[Publication Type] OR
					randomized controlled trial[Publication Type] OR
					meta-analysis[Publication Type] OR
					systematic review[Publication Type] OR
					cohort study[Title/Abstract] OR
					prospective study[Title/Abstract] OR
					multicenter study[Title/Abstract])
					AND adult[MeSH Terms]`,
			},
		},
	}
}

// DefaultAnalysisConfig returns the stock nephrology trend settings: four
// keyword groups, the high-impact journal list, and the rule thresholds.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Groups: []KeywordGroup{
			{Name: GroupTreatments, Keywords: []string{
				"SGLT2 inhibitor", "GLP-1", "finerenone", "dapagliflozin",
				"empagliflozin", "canagliflozin", "immunotherapy",
				"gene therapy", "stem cell", "biologics",
			}},
			{Name: GroupDiagnostics, Keywords: []string{
				"biomarker", "machine learning", "artificial intelligence",
				"proteomics", "metabolomics", "genetic testing",
				"point-of-care", "digital health",
			}},
			{Name: GroupTopics, Keywords: []string{
				"cardiovascular", "heart failure", "inflammation",
				"fibrosis", "oxidative stress", "gut microbiome",
				"precision medicine", "personalized", "telemedicine",
			}},
			{Name: GroupOutcomes, Keywords: []string{
				"mortality", "hospitalization", "quality of life",
				"patient-reported outcomes", "cost-effectiveness",
				"eGFR decline", "proteinuria", "ESKD",
			}},
		},
		HighImpactJournals: []string{
			"N Engl J Med",
			"Lancet",
			"JAMA",
			"BMJ",
			"Ann Intern Med",
			"J Am Soc Nephrol",
			"Kidney Int",
			"Am J Kidney Dis",
			"Clin J Am Soc Nephrol",
			"Nephrol Dial Transplant",
			"Pediatr Nephrol",
			"Am J Transplant",
			"Transplantation",
			"Nat Rev Nephrol",
			"Kidney Int Rep",
			"J Clin Invest",
			"JAMA Intern Med",
			"JAMA Pediatr",
			"Pediatrics",
			"J Pediatr",
		},
		MeshTopN:          30,
		EmergingThreshold: 3,
		GrowthFraction:    0.5,
		CrossMinCount:     2,
		OverlapFraction:   0.2,
		HighlightCap:      10,
		TreatmentsGroup:   GroupTreatments,
		DiagnosticsGroup:  GroupDiagnostics,
	}
}

// DefaultArchiveConfig returns the stock archive settings.
func DefaultArchiveConfig() ArchiveConfig {
	return ArchiveConfig{DataDir: "data"}
}

// DefaultReportConfig returns the stock report settings.
func DefaultReportConfig() ReportConfig {
	return ReportConfig{
		Title:       "Nephrology Weekly Digest",
		OutputDir:   "reports",
		TopJournals: 15,
		TopTypes:    10,
	}
}

// DefaultWatchConfig returns the stock schedule: Mondays at 07:00 local time.
func DefaultWatchConfig() WatchConfig {
	return WatchConfig{Schedule: "0 7 * * 1"}
}

// DefaultServeConfig returns the stock dashboard settings.
func DefaultServeConfig() ServeConfig {
	return ServeConfig{Addr: ":8080"}
}
