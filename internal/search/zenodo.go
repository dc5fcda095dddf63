// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// zenodoBase is the Zenodo records endpoint. Declared as a var so tests
// can substitute an httptest server.
var zenodoBase = "https://zenodo.org/api/records"

// htmlTagPattern strips markup from Zenodo descriptions, which arrive as
// HTML fragments.
var htmlTagPattern = regexp.MustCompile(`<[^>]+>`)

// Zenodo queries the Zenodo repository API for publication records.
type Zenodo struct {
	Client *httpx.Client
}

func (s *Zenodo) Name() string { return "Zenodo" }

// Fetch queries Zenodo and maps publication hits onto Records.
func (s *Zenodo) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"q":    {query},
		"type": {"publication"},
		"size": {fmt.Sprintf("%d", maxResults)},
	}
	reqURL := zenodoBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("Zenodo request: %w", err)
	}
	defer resp.Body.Close()

	var zr zenodoResponse
	if err := httpx.DecodeJSON(resp, &zr); err != nil {
		return nil, fmt.Errorf("Zenodo response: %w", err)
	}

	var records []types.Record
	for _, hit := range zr.Hits.Hits {
		md := hit.Metadata

		var authors []string
		for _, c := range md.Creators {
			authors = append(authors, c.Name)
		}

		rec := types.Record{
			Title:    orDefault(md.Title, types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(stripHTML(md.Description), types.PlaceholderAbstract)),
			DOI:      normalizeDOI(md.DOI),
			Year:     yearOf(md.PublicationDate),
			Journal:  md.Journal.Title,
			Source:   "Zenodo",
		}
		for _, f := range hit.Files {
			if strings.HasSuffix(strings.ToLower(f.Key), ".pdf") {
				rec.PDFURL = f.Links.Self
				break
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func stripHTML(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, " "))
}

// Zenodo API JSON structures.
type zenodoResponse struct {
	Hits zenodoHits `json:"hits"`
}

type zenodoHits struct {
	Hits []zenodoHit `json:"hits"`
}

type zenodoHit struct {
	Metadata zenodoMetadata `json:"metadata"`
	Files    []zenodoFile   `json:"files"`
}

type zenodoMetadata struct {
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	DOI             string          `json:"doi"`
	PublicationDate string          `json:"publication_date"`
	Creators        []zenodoCreator `json:"creators"`
	Journal         zenodoJournal   `json:"journal"`
}

type zenodoCreator struct {
	Name string `json:"name"`
}

type zenodoJournal struct {
	Title string `json:"title"`
}

type zenodoFile struct {
	Key   string         `json:"key"`
	Links zenodoSelfLink `json:"links"`
}

type zenodoSelfLink struct {
	Self string `json:"self"`
}
