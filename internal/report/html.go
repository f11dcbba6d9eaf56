// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"html/template"
	"io"
	"time"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// htmlTopics caps the hot-topic tag cloud in the HTML report.
const htmlTopics = 10

// htmlView is the ordered view model behind the HTML template. Maps are
// ranked here so that template iteration never depends on map order.
type htmlView struct {
	Title       string
	Window      string
	GeneratedAt string
	Summary     types.WeeklySummary
	Pediatric   int
	Adult       int
	HotTopics   []types.KeywordCount
	Groups      []groupView
	Highlights  []types.Article
	Suggestions []types.Suggestion
}

type groupView struct {
	Name   string
	Counts []types.KeywordCount
}

// WriteHTML renders d as a self-contained HTML page (R3.1-R3.3).
// Callers pass generatedAt for the footer stamp so rendering stays
// replayable.
func WriteHTML(d types.Digest, cfg types.ReportConfig, generatedAt time.Time, w io.Writer) error {
	title := cfg.Title
	if title == "" {
		title = "Weekly Digest"
	}

	view := htmlView{
		Title:       title,
		Window:      d.Summary.Window.String(),
		GeneratedAt: generatedAt.UTC().Format("2006-01-02 15:04 MST"),
		Summary:     d.Summary,
		Pediatric:   d.Summary.Categories[types.CategoryPediatric],
		Adult:       d.Summary.Categories[types.CategoryAdult],
		HotTopics:   hotTopics(d.Summary.Stats, htmlTopics),
		Highlights:  d.Summary.Highlights,
		Suggestions: d.Suggestions,
	}
	for _, name := range sortedGroupNames(d.Summary.Stats.KeywordGroups) {
		view.Groups = append(view.Groups, groupView{
			Name:   name,
			Counts: d.Summary.Stats.KeywordGroups[name],
		})
	}

	return htmlReport.Execute(w, view)
}

// hotTopics merges every group's keyword counts into one ranked list.
func hotTopics(stats types.TrendStatistics, top int) []types.KeywordCount {
	merged := make(map[string]int)
	for _, counts := range stats.KeywordGroups {
		for _, kc := range counts {
			merged[kc.Keyword] += kc.Count
		}
	}
	return rankMap(merged, top)
}

var htmlReport = template.Must(template.New("report").Parse(reportHTML))

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - {{.Window}}</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif;
         line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto;
         padding: 20px; background-color: #f5f5f5; }
  .container { background-color: #fff; border-radius: 10px; padding: 30px;
               box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
  .header { text-align: center; border-bottom: 3px solid #1E3A5F;
            padding-bottom: 20px; margin-bottom: 30px; }
  .header h1 { color: #1E3A5F; margin: 0; font-size: 28px; }
  .header p { color: #666; margin: 10px 0 0 0; }
  .metrics { display: flex; justify-content: space-around; flex-wrap: wrap;
             margin: 20px 0; padding: 20px; background-color: #f8f9fa;
             border-radius: 8px; }
  .metric { text-align: center; padding: 10px 20px; }
  .metric-value { font-size: 36px; font-weight: bold; color: #1E3A5F; }
  .metric-label { font-size: 14px; color: #666; }
  .section { margin: 30px 0; }
  .section h2 { color: #1E3A5F; border-left: 4px solid #1E3A5F;
                padding-left: 15px; margin-bottom: 15px; }
  .finding { background-color: #e8f4ea; border-left: 4px solid #28a745;
             padding: 10px 15px; margin: 10px 0; border-radius: 0 5px 5px 0; }
  .article { border: 1px solid #e0e0e0; border-radius: 8px; padding: 15px;
             margin: 15px 0; background-color: #fafafa; }
  .article-title { font-weight: bold; color: #1E3A5F; margin-bottom: 8px; }
  .article-meta { font-size: 13px; color: #666; }
  .high-impact { display: inline-block; background-color: #FFD700; color: #333;
                 padding: 2px 8px; border-radius: 4px; font-size: 11px;
                 font-weight: bold; margin-left: 10px; }
  .trend-tag { display: inline-block; background-color: #e3f2fd; color: #1565c0;
               padding: 3px 10px; border-radius: 15px; font-size: 12px; margin: 3px; }
  .group table { border-collapse: collapse; min-width: 50%; }
  .group td { padding: 4px 12px 4px 0; border-bottom: 1px solid #eee; }
  .idea { background-color: #fff3e0; border-left: 4px solid #ff9800;
          padding: 15px; margin: 15px 0; border-radius: 0 5px 5px 0; }
  .idea-type { font-weight: bold; color: #e65100; margin-bottom: 5px; }
  .footer { text-align: center; margin-top: 30px; padding-top: 20px;
            border-top: 1px solid #e0e0e0; color: #666; font-size: 12px; }
  a { color: #1565c0; text-decoration: none; }
  a:hover { text-decoration: underline; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>{{.Title}}</h1>
    <p>{{.Window}}</p>
  </div>

  <div class="metrics">
    <div class="metric">
      <div class="metric-value">{{.Summary.TotalArticles}}</div>
      <div class="metric-label">Articles</div>
    </div>
    <div class="metric">
      <div class="metric-value">{{.Summary.HighImpactCount}}</div>
      <div class="metric-label">High impact</div>
    </div>
    <div class="metric">
      <div class="metric-value">{{.Pediatric}}</div>
      <div class="metric-label">Pediatric</div>
    </div>
    <div class="metric">
      <div class="metric-value">{{.Adult}}</div>
      <div class="metric-label">Adult</div>
    </div>
  </div>

  <div class="section">
    <h2>Key findings</h2>
    {{range .Summary.KeyFindings}}<div class="finding">{{.}}</div>
    {{else}}<p>No notable findings this week.</p>
    {{end}}
  </div>

  <div class="section">
    <h2>Hot topics</h2>
    <div>
    {{range .HotTopics}}<span class="trend-tag">{{.Keyword}} ({{.Count}})</span>
    {{else}}<p>No keyword matches this week.</p>
    {{end}}
    </div>
  </div>

  <div class="section">
    <h2>Highlights</h2>
    {{range .Highlights}}
    <div class="article">
      <div class="article-title">{{.Title}}{{if .HighImpact}}<span class="high-impact">High-impact journal</span>{{end}}</div>
      <div class="article-meta">
        {{.Journal}}{{with .Type}} | {{.}}{{end}}{{with .PubDate.String}} | {{.}}{{end}}
        {{if .URL}}<br><a href="{{.URL}}" target="_blank">View on PubMed</a>{{end}}
      </div>
    </div>
    {{else}}<p>No highlighted articles this week.</p>
    {{end}}
  </div>

  <div class="section">
    <h2>Keyword trends</h2>
    {{range .Groups}}
    <div class="group">
      <h3>{{.Name}}</h3>
      {{if .Counts}}
      <table>
      {{range .Counts}}<tr><td>{{.Keyword}}</td><td>{{.Count}}</td></tr>
      {{end}}
      </table>
      {{else}}<p>(no matches)</p>{{end}}
    </div>
    {{end}}
  </div>

  <div class="section">
    <h2>Research suggestions</h2>
    {{range .Suggestions}}
    <div class="idea">
      <div class="idea-type">[{{.Kind}}] {{.Topic}}</div>
      <p>{{.Rationale}}</p>
    </div>
    {{else}}<p>No suggestions this week.</p>
    {{end}}
  </div>

  <div class="footer">
    <p>Generated by nephro-digest from PubMed E-utilities data.</p>
    <p>Generated at: {{.GeneratedAt}}</p>
  </div>
</div>
</body>
</html>
`
