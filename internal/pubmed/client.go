// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed queries the NCBI E-utilities API for literature records.
// Implements: prd001-fetch (R1-R5); docs/ARCHITECTURE § Fetch Stage.
//
// The flow mirrors the two-step E-utilities protocol: ESearch turns a
// boolean term plus a date window into PMIDs, EFetch turns PMIDs into
// full records. Requests are paced with a token-bucket limiter (NCBI
// allows 3 requests/s without an API key, 10/s with one) and retried on
// 429 and transient 5xx responses.
package pubmed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/nephro-digest/internal/httputil"
	"github.com/pdiddy/nephro-digest/pkg/types"
)

// Client is a PubMed E-utilities client. Construct it with NewClient.
type Client struct {
	HTTP    *http.Client
	Limiter *rate.Limiter

	// APIKey and Email are sent with every request when set, per NCBI
	// usage policy (R5.2).
	APIKey string
	Email  string

	cfg types.FetchConfig
}

// NewClient builds a client from cfg. apiKey and email may be empty;
// without a key the request rate should stay at or below 3/s.
func NewClient(cfg types.FetchConfig, apiKey, email string) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 3
	}
	return &Client{
		HTTP:    &http.Client{Timeout: cfg.Timeout},
		Limiter: rate.NewLimiter(rate.Limit(rps), 1),
		APIKey:  apiKey,
		Email:   email,
		cfg:     cfg,
	}
}

// esearchResponse is the JSON envelope ESearch returns with retmode=json.
type esearchResponse struct {
	ESearchResult struct {
		Count  string   `json:"count"`
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

// Search returns the PMIDs matching term within window, at most
// cfg.MaxResults, relevance-sorted (R1.3).
func (c *Client) Search(ctx context.Context, term string, window types.Window) ([]string, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"term":    {searchTerm(term, window)},
		"retmax":  {strconv.Itoa(c.cfg.MaxResults)},
		"sort":    {"relevance"},
		"retmode": {"json"},
	}

	resp, err := c.get(ctx, c.cfg.BaseURL+"/esearch.fcgi", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var sr esearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing ESearch response: %w", err)
	}
	return sr.ESearchResult.IDList, nil
}

// Fetch returns full records for pmids via EFetch (R3.1). An empty input
// returns an empty batch without a network round trip.
func (c *Client) Fetch(ctx context.Context, pmids []string) ([]types.Article, error) {
	if len(pmids) == 0 {
		return []types.Article{}, nil
	}

	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(pmids, ",")},
		"retmode": {"xml"},
	}

	resp, err := c.get(ctx, c.cfg.BaseURL+"/efetch.fcgi", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	articles, err := parseArticles(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing EFetch response: %w", err)
	}
	return articles, nil
}

// FetchResult summarizes one run across the configured category queries.
type FetchResult struct {
	// Articles concatenates every query's records in query order, each
	// tagged with its query's category and a fetch timestamp.
	Articles []types.Article

	// Counts maps query name to the number of records it contributed.
	Counts map[string]int

	// Failed maps query name to the terminal error, for queries that
	// failed after retries.
	Failed map[string]error
}

// HasFailures reports whether any query failed.
func (r FetchResult) HasFailures() bool { return len(r.Failed) > 0 }

// FetchAll runs every configured query over window and collects the
// results (R2.1, R2.3, R4.1). One query failing does not stop the
// others; failures are recorded in the result. Progress is streamed
// to w.
func (c *Client) FetchAll(ctx context.Context, window types.Window, w io.Writer) FetchResult {
	res := FetchResult{
		Articles: []types.Article{},
		Counts:   make(map[string]int),
		Failed:   make(map[string]error),
	}
	fetchedAt := time.Now().UTC()

	for _, q := range c.cfg.Queries {
		fmt.Fprintf(w, "searching %s %s\n", q.Name, window)

		pmids, err := c.Search(ctx, q.Term, window)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", q.Name, err)
			res.Failed[q.Name] = err
			continue
		}

		articles, err := c.Fetch(ctx, pmids)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", q.Name, err)
			res.Failed[q.Name] = err
			continue
		}

		for i := range articles {
			articles[i].Category = q.Category
			articles[i].FetchedAt = fetchedAt
		}
		res.Articles = append(res.Articles, articles...)
		res.Counts[q.Name] = len(articles)
		fmt.Fprintf(w, "fetched %d articles for %s\n", len(articles), q.Name)
	}

	return res
}

// get performs one paced, retried E-utilities GET and returns the
// response with a 200 status; any other status is an error.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (*http.Response, error) {
	if c.Email != "" {
		params.Set("email", c.Email)
	}
	if c.APIKey != "" {
		params.Set("api_key", c.APIKey)
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.HTTP, req, 0)
	if err != nil {
		return nil, fmt.Errorf("E-utilities request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("E-utilities returned HTTP %d", resp.StatusCode)
	}
	return resp, nil
}

// searchTerm collapses whitespace runs in term and appends the
// publication-date range filter (R1.2, R2.2).
func searchTerm(term string, w types.Window) string {
	collapsed := strings.Join(strings.Fields(term), " ")
	return fmt.Sprintf("(%s) AND %s:%s[dp]",
		collapsed, w.Start.Format("2006/01/02"), w.End.Format("2006/01/02"))
}
