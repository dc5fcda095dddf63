// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// doiTextPattern finds a DOI anywhere in scraped text or href values.
var doiTextPattern = regexp.MustCompile(`10\.\d{4,9}/[^\s"'<>]+`)

// scrapeSite describes one HTML provider: how to build its search URL and
// where results live in its markup. Selector sets are structural
// heuristics; page redesigns are expected and degrade to a parse-miss
// warning, never a crash.
type scrapeSite struct {
	name      string
	searchURL func(query string) string
	container string
	title     string
	authors   string
	link      string
	date      string
}

// Scrape base URLs, vars so tests can substitute httptest servers.
var (
	biorxivScrapeBase = "https://www.biorxiv.org"
	medrxivScrapeBase = "https://www.medrxiv.org"
	ssrnScrapeBase    = "https://papers.ssrn.com"
	mdpiScrapeBase    = "https://www.mdpi.com"
	scieloScrapeBase  = "https://search.scielo.org"
	redalycScrapeBase = "https://www.redalyc.org"
)

var biorxivSite = scrapeSite{
	name: "bioRxiv",
	searchURL: func(q string) string {
		return biorxivScrapeBase + "/search/" + url.PathEscape(q)
	},
	container: "li.search-result, div.highwire-article-citation",
	title:     ".highwire-cite-title",
	authors:   ".highwire-citation-authors",
	link:      "a.highwire-cite-linked-title",
	date:      ".highwire-cite-metadata-date",
}

var medrxivSite = scrapeSite{
	name: "medRxiv",
	searchURL: func(q string) string {
		return medrxivScrapeBase + "/search/" + url.PathEscape(q)
	},
	container: "li.search-result, div.highwire-article-citation",
	title:     ".highwire-cite-title",
	authors:   ".highwire-citation-authors",
	link:      "a.highwire-cite-linked-title",
	date:      ".highwire-cite-metadata-date",
}

var ssrnSite = scrapeSite{
	name: "SSRN",
	searchURL: func(q string) string {
		return ssrnScrapeBase + "/sol3/results.cfm?txtKey_Words=" + url.QueryEscape(q)
	},
	container: "div.search-results .paper, div.trow",
	title:     "a.title, h3 a",
	authors:   ".authors, .authors-list",
	link:      "a.title, h3 a",
	date:      ".note-date, .date",
}

var mdpiSite = scrapeSite{
	name: "MDPI",
	searchURL: func(q string) string {
		return mdpiScrapeBase + "/search?q=" + url.QueryEscape(q)
	},
	container: "div.article-content, article.article-item",
	title:     "a.title-link",
	authors:   "div.authors",
	link:      "a.title-link",
	date:      "div.color-grey-dark",
}

var scieloSite = scrapeSite{
	name: "SciELO",
	searchURL: func(q string) string {
		return scieloScrapeBase + "/?q=" + url.QueryEscape(q) + "&lang=en"
	},
	container: "div.item",
	title:     ".title",
	authors:   ".authors",
	link:      ".line a",
	date:      ".source",
}

var redalycSite = scrapeSite{
	name: "Redalyc",
	searchURL: func(q string) string {
		return redalycScrapeBase + "/busquedaArticuloFiltros.oa?q=" + url.QueryEscape(q)
	},
	container: "div.resultado, li.articulo",
	title:     ".titulo a, h4 a",
	authors:   ".autores",
	link:      ".titulo a, h4 a",
	date:      ".anio",
}

// Scraper implements Source for providers without a usable API by walking
// their public search-results pages. These sites do not reliably honor a
// result-count parameter, so maxResults is enforced client-side.
type Scraper struct {
	client *httpx.Client
	site   scrapeSite

	warnings []string
}

func scrapeSource(client *httpx.Client, site scrapeSite) *Scraper {
	return &Scraper{client: client, site: site}
}

func (s *Scraper) Name() string { return s.site.name }

// Warnings drains parse-miss warnings accumulated by the last Fetch.
func (s *Scraper) Warnings() []string {
	w := s.warnings
	s.warnings = nil
	return w
}

// Fetch downloads the search page and extracts up to maxResults records
// from its repeating result containers. A page with no recognizable
// containers yields an empty result and a parse-miss warning, not an
// error: structure drift is an expected condition for scraped sources.
func (s *Scraper) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	s.warnings = nil

	resp, err := s.client.Get(ctx, s.site.searchURL(query), "text/html")
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", s.site.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("%s returned http %d", s.site.name, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s results page: %w", s.site.name, err)
	}

	containers := doc.Find(s.site.container)
	if containers.Length() == 0 {
		s.warnings = append(s.warnings, "no result containers matched; page structure may have changed")
		return nil, nil
	}

	var records []types.Record
	containers.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(records) >= maxResults {
			return false
		}
		rec, ok := s.extract(sel)
		if ok {
			records = append(records, rec)
		}
		return true
	})
	return records, nil
}

// extract mines one result container. Containers missing a title are
// skipped rather than mapped to placeholder-only records.
func (s *Scraper) extract(sel *goquery.Selection) (types.Record, bool) {
	title := cleanText(sel.Find(s.site.title).First().Text())
	if title == "" {
		return types.Record{}, false
	}

	rec := types.Record{
		Title:    title,
		Authors:  orDefault(cleanText(sel.Find(s.site.authors).First().Text()), types.PlaceholderAuthors),
		Abstract: types.PlaceholderAbstract,
		Year:     extractYear(cleanText(sel.Find(s.site.date).First().Text())),
		Source:   s.site.name,
	}

	if m := doiTextPattern.FindString(sel.Text()); m != "" {
		rec.DOI = normalizeDOI(strings.TrimRight(m, ".,;"))
	}
	if href, ok := sel.Find(s.site.link).First().Attr("href"); ok {
		rec.PDFURL = s.absoluteURL(href)
	}
	return rec, true
}

func (s *Scraper) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base := s.site.searchURL("")
	u, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return u.ResolveReference(ref).String()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// extractYear finds a plausible publication year in free text.
func extractYear(s string) string {
	return yearPattern.FindString(s)
}
