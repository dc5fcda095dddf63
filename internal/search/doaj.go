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

// doajBase is the DOAJ article search endpoint; the query is a path
// segment. Declared as a var so tests can substitute an httptest server.
var doajBase = "https://doaj.org/api/search/articles/"

// DOAJ queries the Directory of Open Access Journals.
type DOAJ struct {
	Client *httpx.Client
}

func (s *DOAJ) Name() string { return "DOAJ" }

// Fetch queries DOAJ and maps article bibjson onto Records.
func (s *DOAJ) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	reqURL := doajBase + url.PathEscape(query) + "?pageSize=" + fmt.Sprintf("%d", maxResults)

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("DOAJ request: %w", err)
	}
	defer resp.Body.Close()

	var dr doajResponse
	if err := httpx.DecodeJSON(resp, &dr); err != nil {
		return nil, fmt.Errorf("DOAJ response: %w", err)
	}

	var records []types.Record
	for _, res := range dr.Results {
		bib := res.Bibjson

		var authors []string
		for _, a := range bib.Author {
			authors = append(authors, a.Name)
		}

		rec := types.Record{
			Title:    orDefault(bib.Title, types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(bib.Abstract, types.PlaceholderAbstract)),
			Year:     yearOf(bib.Year),
			Journal:  bib.Journal.Title,
			Source:   "DOAJ",
		}
		for _, id := range bib.Identifier {
			if strings.EqualFold(id.Type, "doi") {
				rec.DOI = normalizeDOI(id.ID)
				break
			}
		}
		for _, link := range bib.Link {
			if strings.EqualFold(link.Type, "fulltext") {
				rec.PDFURL = link.URL
				break
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// DOAJ API JSON structures.
type doajResponse struct {
	Results []doajResult `json:"results"`
}

type doajResult struct {
	Bibjson doajBibjson `json:"bibjson"`
}

type doajBibjson struct {
	Title      string           `json:"title"`
	Abstract   string           `json:"abstract"`
	Year       string           `json:"year"`
	Author     []doajAuthor     `json:"author"`
	Journal    doajJournal      `json:"journal"`
	Identifier []doajIdentifier `json:"identifier"`
	Link       []doajLink       `json:"link"`
}

type doajAuthor struct {
	Name string `json:"name"`
}

type doajJournal struct {
	Title string `json:"title"`
}

type doajIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

type doajLink struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}
