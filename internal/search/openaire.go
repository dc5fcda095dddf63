// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// openaireBase is the OpenAIRE publication search endpoint. Declared as a
// var so tests can substitute an httptest server.
var openaireBase = "https://api.openaire.eu/search/publications"

// OpenAIRE queries the OpenAIRE aggregator. Its JSON mirrors an XML
// document, so fields that are single objects for one publication arrive
// as arrays for another; oaireList absorbs both shapes.
type OpenAIRE struct {
	Client *httpx.Client
}

func (s *OpenAIRE) Name() string { return "OpenAIRE" }

// Fetch queries OpenAIRE and maps publications onto Records.
func (s *OpenAIRE) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"keywords": {query},
		"size":     {fmt.Sprintf("%d", maxResults)},
		"format":   {"json"},
		"OA":       {"true"},
	}
	reqURL := openaireBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("OpenAIRE request: %w", err)
	}
	defer resp.Body.Close()

	var or openaireResponse
	if err := httpx.DecodeJSON(resp, &or); err != nil {
		return nil, fmt.Errorf("OpenAIRE response: %w", err)
	}

	var records []types.Record
	for _, res := range or.Response.Results.Result {
		entity := res.Metadata.Entity.Result

		var authors []string
		for _, c := range entity.Creator {
			authors = append(authors, c.Value)
		}

		rec := types.Record{
			Title:    orDefault(entity.Title.First(), types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(entity.Description.First(), types.PlaceholderAbstract)),
			Year:     yearOf(entity.DateOfAcceptance.First()),
			Source:   "OpenAIRE",
		}
		for _, pid := range entity.PID {
			if strings.EqualFold(pid.ClassID, "doi") {
				rec.DOI = normalizeDOI(pid.Value)
				break
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

// OpenAIRE API JSON structures. Every leaf is a {"$": value} wrapper.
type openaireResponse struct {
	Response openaireInner `json:"response"`
}

type openaireInner struct {
	Results openaireResults `json:"results"`
}

type openaireResults struct {
	Result []openaireResult `json:"result"`
}

type openaireResult struct {
	Metadata openaireMetadata `json:"metadata"`
}

type openaireMetadata struct {
	Entity openaireEntity `json:"oaf:entity"`
}

type openaireEntity struct {
	Result openaireWork `json:"oaf:result"`
}

type openaireWork struct {
	Title            oaireList       `json:"title"`
	Description      oaireList       `json:"description"`
	DateOfAcceptance oaireList       `json:"dateofacceptance"`
	Creator          []openairePID   `json:"creator"`
	PID              []openairePID   `json:"pid"`
}

type openairePID struct {
	ClassID string `json:"@classid"`
	Value   string `json:"$"`
}

// oaireList is a leaf that may arrive as a single {"$": v} object or an
// array of them.
type oaireList []openairePID

// UnmarshalJSON accepts both the object and array encodings.
func (l *oaireList) UnmarshalJSON(data []byte) error {
	var many []openairePID
	if err := json.Unmarshal(data, &many); err == nil {
		*l = many
		return nil
	}
	var one openairePID
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*l = oaireList{one}
	return nil
}

// First returns the first leaf value, or "".
func (l oaireList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0].Value
}
