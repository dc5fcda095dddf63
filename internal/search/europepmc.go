// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// europePMCBase is the Europe PMC REST search endpoint. Declared as a var
// so tests can substitute an httptest server.
var europePMCBase = "https://www.ebi.ac.uk/europepmc/webservices/rest/search"

// EuropePMC queries the Europe PMC REST API.
type EuropePMC struct {
	Client *httpx.Client
}

// SourceEuropePMC is the provenance name Europe PMC records carry. The
// acquisition stage keys its PDF-render strategy on it.
const SourceEuropePMC = "Europe PMC"

func (s *EuropePMC) Name() string { return SourceEuropePMC }

// Fetch queries Europe PMC for open-access records matching query.
func (s *EuropePMC) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"query":    {query + " AND OPEN_ACCESS:y"},
		"format":   {"json"},
		"pageSize": {fmt.Sprintf("%d", maxResults)},
	}
	reqURL := europePMCBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("Europe PMC request: %w", err)
	}
	defer resp.Body.Close()

	var er europePMCResponse
	if err := httpx.DecodeJSON(resp, &er); err != nil {
		return nil, fmt.Errorf("Europe PMC response: %w", err)
	}

	var records []types.Record
	for _, res := range er.ResultList.Result {
		rec := types.Record{
			Title:    orDefault(res.Title, types.PlaceholderTitle),
			Authors:  orDefault(res.AuthorString, types.PlaceholderAuthors),
			Abstract: types.TruncateAbstract(orDefault(res.AbstractText, types.PlaceholderAbstract)),
			DOI:      normalizeDOI(res.DOI),
			Year:     yearOf(res.PubYear),
			Journal:  res.JournalTitle,
			PMID:     res.PMID,
			PMCID:    res.PMCID,
			Source:   SourceEuropePMC,
		}
		if res.PMCID != "" {
			rec.PDFURL = fmt.Sprintf("https://europepmc.org/articles/%s?pdf=render", res.PMCID)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Europe PMC API JSON structures.
type europePMCResponse struct {
	ResultList europePMCResultList `json:"resultList"`
}

type europePMCResultList struct {
	Result []europePMCResult `json:"result"`
}

type europePMCResult struct {
	Title        string `json:"title"`
	AuthorString string `json:"authorString"`
	AbstractText string `json:"abstractText"`
	DOI          string `json:"doi"`
	PMID         string `json:"pmid"`
	PMCID        string `json:"pmcid"`
	PubYear      string `json:"pubYear"`
	JournalTitle string `json:"journalTitle"`
}
