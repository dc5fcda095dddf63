// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// coreBase is the CORE v3 works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var coreBase = "https://api.core.ac.uk/v3/search/works"

// Core queries the CORE aggregator API. An API key is mandatory; without
// one the source reports itself unavailable.
type Core struct {
	Client *httpx.Client
	APIKey string
}

func (s *Core) Name() string { return "CORE" }

// Fetch queries CORE and maps works onto Records.
func (s *Core) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	if s.APIKey == "" {
		return nil, fmt.Errorf("no API key configured")
	}

	params := url.Values{
		"q":     {query},
		"limit": {fmt.Sprintf("%d", maxResults)},
	}
	reqURL := coreBase + "?" + params.Encode()

	resp, err := s.Client.GetWithHeaders(ctx, reqURL, map[string]string{
		"Authorization": "Bearer " + s.APIKey,
		"Accept":        "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("CORE request: %w", err)
	}
	defer resp.Body.Close()

	var cr coreResponse
	if err := httpx.DecodeJSON(resp, &cr); err != nil {
		return nil, fmt.Errorf("CORE response: %w", err)
	}

	var records []types.Record
	for _, work := range cr.Results {
		var authors []string
		for _, a := range work.Authors {
			authors = append(authors, a.Name)
		}

		rec := types.Record{
			Title:    orDefault(work.Title, types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(work.Abstract, types.PlaceholderAbstract)),
			DOI:      normalizeDOI(work.DOI),
			Journal:  firstJournal(work.Journals),
			Source:   "CORE",
		}
		if work.YearPublished > 0 {
			rec.Year = fmt.Sprintf("%d", work.YearPublished)
		}
		if strings.HasPrefix(work.DownloadURL, "http") {
			rec.PDFURL = work.DownloadURL
		}
		records = append(records, rec)
	}
	return records, nil
}

func firstJournal(journals []coreJournal) string {
	for _, j := range journals {
		if j.Title != "" {
			return j.Title
		}
	}
	return ""
}

// CORE API JSON structures.
type coreResponse struct {
	TotalHits int        `json:"totalHits"`
	Results   []coreWork `json:"results"`
}

type coreWork struct {
	Title         string        `json:"title"`
	Abstract      string        `json:"abstract"`
	Authors       []coreAuthor  `json:"authors"`
	DOI           string        `json:"doi"`
	YearPublished int           `json:"yearPublished"`
	DownloadURL   string        `json:"downloadUrl"`
	Journals      []coreJournal `json:"journals"`
}

type coreAuthor struct {
	Name string `json:"name"`
}

type coreJournal struct {
	Title string `json:"title"`
}
