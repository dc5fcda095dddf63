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

// chemrxivBase is the ChemRxiv public API items endpoint. Declared as a
// var so tests can substitute an httptest server.
var chemrxivBase = "https://chemrxiv.org/engage/chemrxiv/public-api/v1/items"

// ChemRxiv queries the ChemRxiv preprint server API.
type ChemRxiv struct {
	Client *httpx.Client
}

func (s *ChemRxiv) Name() string { return "ChemRxiv" }

// Fetch queries ChemRxiv and maps preprint items onto Records.
func (s *ChemRxiv) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"term":  {query},
		"limit": {fmt.Sprintf("%d", maxResults)},
	}
	reqURL := chemrxivBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("ChemRxiv request: %w", err)
	}
	defer resp.Body.Close()

	var cr chemrxivResponse
	if err := httpx.DecodeJSON(resp, &cr); err != nil {
		return nil, fmt.Errorf("ChemRxiv response: %w", err)
	}

	var records []types.Record
	for _, hit := range cr.ItemHits {
		item := hit.Item

		var authors []string
		for _, a := range item.Authors {
			authors = append(authors, strings.TrimSpace(a.FirstName+" "+a.LastName))
		}

		rec := types.Record{
			Title:    orDefault(item.Title, types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(item.Abstract, types.PlaceholderAbstract)),
			DOI:      normalizeDOI(item.DOI),
			Year:     yearOf(item.PublishedDate),
			Journal:  "ChemRxiv",
			PDFURL:   item.Asset.Original.URL,
			Source:   "ChemRxiv",
		}
		records = append(records, rec)
	}
	return records, nil
}

// ChemRxiv API JSON structures.
type chemrxivResponse struct {
	ItemHits []chemrxivHit `json:"itemHits"`
}

type chemrxivHit struct {
	Item chemrxivItem `json:"item"`
}

type chemrxivItem struct {
	Title         string           `json:"title"`
	Abstract      string           `json:"abstract"`
	DOI           string           `json:"doi"`
	PublishedDate string           `json:"publishedDate"`
	Authors       []chemrxivAuthor `json:"authors"`
	Asset         chemrxivAsset    `json:"asset"`
}

type chemrxivAuthor struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type chemrxivAsset struct {
	Original chemrxivOriginal `json:"original"`
}

type chemrxivOriginal struct {
	URL string `json:"url"`
}
