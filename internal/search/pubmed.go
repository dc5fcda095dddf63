// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// NCBI E-utilities endpoints. Declared as vars so tests can substitute
// httptest servers.
var (
	pmcSearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pmcFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// pmcFetchBatchSize bounds how many article IDs one efetch call carries.
const pmcFetchBatchSize = 20

// PubMedCentral queries NCBI PMC: a JSON esearch for IDs, then XML efetch
// calls in batches, each article tree mined defensively for metadata.
type PubMedCentral struct {
	Client *httpx.Client
}

func (s *PubMedCentral) Name() string { return "PubMed Central" }

// Fetch searches PMC and returns mapped records.
func (s *PubMedCentral) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	ids, err := s.searchIDs(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var records []types.Record
	for start := 0; start < len(ids); start += pmcFetchBatchSize {
		end := start + pmcFetchBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := s.fetchArticles(ctx, ids[start:end])
		if err != nil {
			// Partial results beat none; an earlier batch may have
			// already produced records.
			if len(records) > 0 {
				return records, nil
			}
			return nil, err
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (s *PubMedCentral) searchIDs(ctx context.Context, query string, maxResults int) ([]string, error) {
	params := url.Values{
		"db":      {"pmc"},
		"term":    {query + " AND open access[filter]"},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"retmode": {"json"},
	}
	reqURL := pmcSearchBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("PMC esearch request: %w", err)
	}
	defer resp.Body.Close()

	var er pmcESearchResponse
	if err := httpx.DecodeJSON(resp, &er); err != nil {
		return nil, fmt.Errorf("PMC esearch response: %w", err)
	}
	return er.ESearchResult.IDList, nil
}

func (s *PubMedCentral) fetchArticles(ctx context.Context, ids []string) ([]types.Record, error) {
	params := url.Values{
		"db":      {"pmc"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	reqURL := pmcFetchBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/xml")
	if err != nil {
		return nil, fmt.Errorf("PMC efetch request: %w", err)
	}
	defer resp.Body.Close()

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("PMC efetch response: %w", err)
	}

	var set pmcArticleSet
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PMC article set: %w", err)
	}

	var records []types.Record
	for _, art := range set.Articles {
		records = append(records, mapPMCArticle(art))
	}
	return records, nil
}

// mapPMCArticle extracts Record fields from one article tree. Every
// sub-extraction tolerates absent nodes.
func mapPMCArticle(art pmcArticle) types.Record {
	meta := art.Front.ArticleMeta

	var authors []string
	for _, c := range meta.ContribGroup.Contribs {
		name := strings.TrimSpace(c.Name.GivenNames + " " + c.Name.Surname)
		if name != "" {
			authors = append(authors, name)
		}
	}

	rec := types.Record{
		Title:    orDefault(meta.TitleGroup.ArticleTitle.Text(), types.PlaceholderTitle),
		Authors:  joinAuthors(authors),
		Abstract: types.TruncateAbstract(orDefault(meta.Abstract.Text(), types.PlaceholderAbstract)),
		Journal:  art.Front.JournalMeta.JournalTitleGroup.JournalTitle,
		Source:   "PubMed Central",
	}

	for _, id := range meta.ArticleIDs {
		switch id.IDType {
		case "doi":
			rec.DOI = normalizeDOI(id.Value)
		case "pmid":
			rec.PMID = id.Value
		case "pmc", "pmcid":
			rec.PMCID = id.Value
		}
	}

	for _, pd := range meta.PubDates {
		if y := yearOf(pd.Year); y != "" {
			rec.Year = y
			break
		}
	}

	if rec.PMCID != "" {
		pmcid := rec.PMCID
		if !strings.HasPrefix(pmcid, "PMC") {
			pmcid = "PMC" + pmcid
			rec.PMCID = pmcid
		}
		rec.PDFURL = fmt.Sprintf("https://www.ncbi.nlm.nih.gov/pmc/articles/%s/pdf/", pmcid)
	}
	return rec
}

// PMC E-utilities structures.
type pmcESearchResponse struct {
	ESearchResult pmcESearchResult `json:"esearchresult"`
}

type pmcESearchResult struct {
	IDList []string `json:"idlist"`
}

type pmcArticleSet struct {
	XMLName  xml.Name     `xml:"pmc-articleset"`
	Articles []pmcArticle `xml:"article"`
}

type pmcArticle struct {
	Front pmcFront `xml:"front"`
}

type pmcFront struct {
	JournalMeta pmcJournalMeta `xml:"journal-meta"`
	ArticleMeta pmcArticleMeta `xml:"article-meta"`
}

type pmcJournalMeta struct {
	JournalTitleGroup pmcJournalTitleGroup `xml:"journal-title-group"`
}

type pmcJournalTitleGroup struct {
	JournalTitle string `xml:"journal-title"`
}

type pmcArticleMeta struct {
	TitleGroup   pmcTitleGroup   `xml:"title-group"`
	ContribGroup pmcContribGroup `xml:"contrib-group"`
	Abstract     pmcMixedText    `xml:"abstract"`
	ArticleIDs   []pmcArticleID  `xml:"article-id"`
	PubDates     []pmcPubDate    `xml:"pub-date"`
}

type pmcTitleGroup struct {
	ArticleTitle pmcMixedText `xml:"article-title"`
}

type pmcContribGroup struct {
	Contribs []pmcContrib `xml:"contrib"`
}

type pmcContrib struct {
	Name pmcName `xml:"name"`
}

type pmcName struct {
	Surname    string `xml:"surname"`
	GivenNames string `xml:"given-names"`
}

type pmcArticleID struct {
	IDType string `xml:"pub-id-type,attr"`
	Value  string `xml:",chardata"`
}

type pmcPubDate struct {
	Year string `xml:"year"`
}

// pmcMixedText captures element content that may contain inline markup
// (italics, math) and flattens it to text.
type pmcMixedText struct {
	Raw string `xml:",innerxml"`
}

// Text strips residual tags and collapses whitespace.
func (m pmcMixedText) Text() string {
	s := htmlTagPattern.ReplaceAllString(m.Raw, " ")
	return strings.Join(strings.Fields(s), " ")
}
