// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// figshareBase is the Figshare article search endpoint (POST-only).
// Declared as a var so tests can substitute an httptest server.
var figshareBase = "https://api.figshare.com/v2/articles/search"

// Figshare queries the Figshare repository API.
type Figshare struct {
	Client *httpx.Client
}

func (s *Figshare) Name() string { return "Figshare" }

// Fetch posts a search to Figshare and maps article summaries onto
// Records. The list endpoint carries no abstract or author detail, so
// those fields take placeholders.
func (s *Figshare) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	body := figshareSearchRequest{SearchFor: query, PageSize: maxResults, Page: 1}

	resp, err := s.Client.PostJSON(ctx, figshareBase, body, map[string]string{"Accept": "application/json"})
	if err != nil {
		return nil, fmt.Errorf("Figshare request: %w", err)
	}
	defer resp.Body.Close()

	var articles []figshareArticle
	if err := httpx.DecodeJSON(resp, &articles); err != nil {
		return nil, fmt.Errorf("Figshare response: %w", err)
	}

	var records []types.Record
	for _, a := range articles {
		rec := types.Record{
			Title:    orDefault(a.Title, types.PlaceholderTitle),
			Authors:  types.PlaceholderAuthors,
			Abstract: types.PlaceholderAbstract,
			DOI:      normalizeDOI(a.DOI),
			Year:     yearOf(a.PublishedDate),
			Journal:  a.DefinedTypeName,
			Source:   "Figshare",
		}
		records = append(records, rec)
	}
	return records, nil
}

// Figshare API JSON structures.
type figshareSearchRequest struct {
	SearchFor string `json:"search_for"`
	PageSize  int    `json:"page_size"`
	Page      int    `json:"page"`
}

type figshareArticle struct {
	Title           string `json:"title"`
	DOI             string `json:"doi"`
	PublishedDate   string `json:"published_date"`
	DefinedTypeName string `json:"defined_type_name"`
	URLPublicHTML   string `json:"url_public_html"`
}
