// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// semanticBase is the Semantic Scholar paper search endpoint. Declared as
// a var so tests can substitute an httptest server.
var semanticBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,abstract,authors,externalIds,year,venue,openAccessPdf"

// SemanticScholar queries the Semantic Scholar Graph API.
type SemanticScholar struct {
	Client *httpx.Client
	// APIKey raises rate limits when present.
	APIKey string
}

func (s *SemanticScholar) Name() string { return "Semantic Scholar" }

// Fetch queries Semantic Scholar and maps papers onto Records.
func (s *SemanticScholar) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", maxResults)},
		"fields": {semanticFields},
	}
	reqURL := semanticBase + "?" + params.Encode()

	headers := map[string]string{"Accept": "application/json"}
	if s.APIKey != "" {
		headers["x-api-key"] = s.APIKey
	}

	resp, err := s.Client.GetWithHeaders(ctx, reqURL, headers)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar request: %w", err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := httpx.DecodeJSON(resp, &sr); err != nil {
		return nil, fmt.Errorf("Semantic Scholar response: %w", err)
	}

	var records []types.Record
	for _, paper := range sr.Data {
		var authors []string
		for _, a := range paper.Authors {
			authors = append(authors, a.Name)
		}

		rec := types.Record{
			Title:    orDefault(paper.Title, types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(paper.Abstract, types.PlaceholderAbstract)),
			DOI:      normalizeDOI(paper.ExternalIDs.DOI),
			Journal:  paper.Venue,
			ArxivID:  paper.ExternalIDs.ArXiv,
			PDFURL:   paper.OpenAccessPDF.URL,
			Source:   "Semantic Scholar",
		}
		if paper.Year > 0 {
			rec.Year = fmt.Sprintf("%d", paper.Year)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total int             `json:"total"`
	Data  []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Year          int                 `json:"year"`
	Venue         string              `json:"venue"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
	OpenAccessPDF semanticOpenAccess  `json:"openAccessPdf"`
}

type semanticAuthor struct {
	Name string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}
