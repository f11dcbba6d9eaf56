// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

import (
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/nephro-digest/pkg/types"
)

// parseArticles decodes an EFetch XML payload into article records
// (R3.1, R3.4). Records are emitted even when fields are missing; a
// record without a PMID is returned as-is so downstream stages can
// count it as skipped rather than lose it silently.
func parseArticles(r io.Reader) ([]types.Article, error) {
	var set pubmedArticleSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, err
	}

	articles := make([]types.Article, 0, len(set.Articles))
	for _, pa := range set.Articles {
		articles = append(articles, buildArticle(pa))
	}
	return articles, nil
}

func buildArticle(pa pubmedArticle) types.Article {
	cit := pa.Citation
	pmid := strings.TrimSpace(cit.PMID)

	a := types.Article{
		PMID:      pmid,
		Title:     flatten(cit.Article.Title.Raw),
		Abstract:  joinAbstract(cit.Article.Abstract),
		Authors:   parseAuthors(cit.Article.Authors),
		Journal:   journalName(cit.Article.Journal),
		PubDate:   parsePubDate(cit.Article.Journal.PubDate),
		Type:      mapPublicationTypes(cit.Article.PubTypes),
		Keywords:  cleanTerms(cit.Keywords),
		MeSHTerms: cleanTerms(cit.MeshTerms),
		DOI:       findDOI(pa.Data.ArticleIDs),
	}
	if pmid != "" {
		a.URL = fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", pmid)
	}
	return a
}

// journalName prefers the MEDLINE abbreviation so venue names line up
// with the configured high-impact list (R3.2); the full title is the
// fallback for journals without one.
func journalName(j journalInfo) string {
	if abbr := strings.TrimSpace(j.ISOAbbreviation); abbr != "" {
		return abbr
	}
	return strings.TrimSpace(j.Title)
}

// joinAbstract flattens structured abstracts into one string, keeping
// section labels as "LABEL: text" prefixes.
func joinAbstract(sections []abstractSection) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		text := flatten(s.Raw)
		if text == "" {
			continue
		}
		if label := strings.TrimSpace(s.Label); label != "" {
			text = label + ": " + text
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

func parseAuthors(authors []author) []string {
	var out []string
	for _, a := range authors {
		last := strings.TrimSpace(a.LastName)
		fore := strings.TrimSpace(a.ForeName)
		switch {
		case last != "":
			out = append(out, strings.TrimSpace(last+" "+fore))
		case strings.TrimSpace(a.CollectiveName) != "":
			out = append(out, strings.TrimSpace(a.CollectiveName))
		}
	}
	return out
}

// parsePubDate reads the Year/Month/Day triple, falling back to the
// year embedded in a MedlineDate range like "2026 Jan-Feb". A record
// without a resolvable year gets a zero date.
func parsePubDate(pd pubDate) types.PubDate {
	year := atoi(pd.Year)
	if year == 0 {
		year = medlineYear(pd.MedlineDate)
	}
	if year == 0 {
		return types.PubDate{}
	}
	return types.PubDate{
		Year:  year,
		Month: parseMonth(pd.Month),
		Day:   atoi(pd.Day),
	}
}

func medlineYear(md string) int {
	for _, f := range strings.Fields(md) {
		if y, err := strconv.Atoi(f); err == nil && y >= 1000 && y <= 9999 {
			return y
		}
	}
	return 0
}

var monthNames = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

// parseMonth accepts the numeric and English-name month forms PubMed
// emits ("5", "May", "Sept").
func parseMonth(s string) int {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n >= 1 && n <= 12 {
			return n
		}
		return 0
	}
	lower := strings.ToLower(s)
	if len(lower) < 3 {
		return 0
	}
	return monthNames[lower[:3]]
}

// pubTypeRanks orders the PublicationType labels we recognize from most
// to least specific; the first match wins (R3.3).
var pubTypeRanks = []struct {
	label string
	kind  types.ArticleType
}{
	{"Randomized Controlled Trial", types.TypeRCT},
	{"Meta-Analysis", types.TypeMetaAnalysis},
	{"Systematic Review", types.TypeSystematicReview},
	{"Observational Study", types.TypeCohortStudy},
}

func mapPublicationTypes(labels []string) types.ArticleType {
	for _, r := range pubTypeRanks {
		for _, l := range labels {
			if strings.TrimSpace(l) == r.label {
				return r.kind
			}
		}
	}
	return types.TypeOther
}

func findDOI(ids []articleID) string {
	for _, id := range ids {
		if strings.EqualFold(strings.TrimSpace(id.IDType), "doi") {
			return strings.TrimSpace(id.Value)
		}
	}
	return ""
}

func cleanTerms(terms []string) []string {
	var out []string
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// flatten strips inline markup (<i>, <sup>, ...) from an XML fragment
// and unescapes entities. Titles and abstracts carry such markup for
// gene symbols and formulas; only the text matters here.
func flatten(raw string) string {
	var b strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}

// --- EFetch response types ---

type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

type pubmedArticle struct {
	Citation medlineCitation `xml:"MedlineCitation"`
	Data     pubmedData      `xml:"PubmedData"`
}

type medlineCitation struct {
	PMID      string       `xml:"PMID"`
	Article   citedArticle `xml:"Article"`
	MeshTerms []string     `xml:"MeshHeadingList>MeshHeading>DescriptorName"`
	Keywords  []string     `xml:"KeywordList>Keyword"`
}

type citedArticle struct {
	Title    xmlFragment       `xml:"ArticleTitle"`
	Abstract []abstractSection `xml:"Abstract>AbstractText"`
	Authors  []author          `xml:"AuthorList>Author"`
	Journal  journalInfo       `xml:"Journal"`
	PubTypes []string          `xml:"PublicationTypeList>PublicationType"`
}

type xmlFragment struct {
	Raw string `xml:",innerxml"`
}

type abstractSection struct {
	Label string `xml:"Label,attr"`
	Raw   string `xml:",innerxml"`
}

type author struct {
	LastName       string `xml:"LastName"`
	ForeName       string `xml:"ForeName"`
	CollectiveName string `xml:"CollectiveName"`
}

type journalInfo struct {
	Title           string  `xml:"Title"`
	ISOAbbreviation string  `xml:"ISOAbbreviation"`
	PubDate         pubDate `xml:"JournalIssue>PubDate"`
}

type pubDate struct {
	Year        string `xml:"Year"`
	Month       string `xml:"Month"`
	Day         string `xml:"Day"`
	MedlineDate string `xml:"MedlineDate"`
}

type pubmedData struct {
	ArticleIDs []articleID `xml:"ArticleIdList>ArticleId"`
}

type articleID struct {
	IDType string `xml:"IdType,attr"`
	Value  string `xml:",chardata"`
}
