// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// openAlexBase is the OpenAlex Works search endpoint. Declared as a var so
// tests can substitute an httptest server.
var openAlexBase = "https://api.openalex.org/works"

// OpenAlex queries the OpenAlex API.
type OpenAlex struct {
	Client *httpx.Client
	// Email is sent as the mailto parameter for polite pool access.
	Email string
}

func (s *OpenAlex) Name() string { return "OpenAlex" }

// Fetch queries OpenAlex and maps works onto Records. OpenAlex delivers
// abstracts as an inverted word-position index; they are reconstructed by
// sorting tokens by position.
func (s *OpenAlex) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"search":   {query},
		"per-page": {fmt.Sprintf("%d", maxResults)},
	}
	if s.Email != "" {
		params.Set("mailto", s.Email)
	}
	reqURL := openAlexBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("OpenAlex request: %w", err)
	}
	defer resp.Body.Close()

	var oar openAlexResponse
	if err := httpx.DecodeJSON(resp, &oar); err != nil {
		return nil, fmt.Errorf("OpenAlex response: %w", err)
	}

	var records []types.Record
	for _, work := range oar.Results {
		var authors []string
		for _, a := range work.Authorships {
			authors = append(authors, a.Author.DisplayName)
		}

		rec := types.Record{
			Title:    orDefault(work.Title, types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(reconstructAbstract(work.AbstractInvertedIndex), types.PlaceholderAbstract)),
			DOI:      normalizeDOI(work.DOI),
			Journal:  work.PrimaryLocation.Source.DisplayName,
			PDFURL:   work.OpenAccess.OAURL,
			Source:   "OpenAlex",
		}
		if work.PublicationYear > 0 {
			rec.Year = fmt.Sprintf("%d", work.PublicationYear)
		}
		records = append(records, rec)
	}
	return records, nil
}

// reconstructAbstract converts OpenAlex's abstract_inverted_index back to
// plain text. The index maps each word to the positions where it appears.
func reconstructAbstract(invertedIndex map[string][]int) string {
	if len(invertedIndex) == 0 {
		return ""
	}

	type posWord struct {
		pos  int
		word string
	}
	var pairs []posWord
	for word, positions := range invertedIndex {
		for _, pos := range positions {
			pairs = append(pairs, posWord{pos: pos, word: word})
		}
	}

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].pos < pairs[j].pos })

	out := make([]byte, 0, len(pairs)*8)
	for i, p := range pairs {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, p.word...)
	}
	return string(out)
}

// OpenAlex API JSON structures.
type openAlexResponse struct {
	Results []openAlexWork `json:"results"`
}

type openAlexWork struct {
	ID                    string               `json:"id"`
	Title                 string               `json:"title"`
	DOI                   string               `json:"doi"`
	PublicationYear       int                  `json:"publication_year"`
	Authorships           []openAlexAuthorship `json:"authorships"`
	AbstractInvertedIndex map[string][]int     `json:"abstract_inverted_index"`
	OpenAccess            openAlexOpenAccess   `json:"open_access"`
	PrimaryLocation       openAlexLocation     `json:"primary_location"`
}

type openAlexAuthorship struct {
	Author openAlexAuthor `json:"author"`
}

type openAlexAuthor struct {
	DisplayName string `json:"display_name"`
}

type openAlexOpenAccess struct {
	IsOA  bool   `json:"is_oa"`
	OAURL string `json:"oa_url"`
}

type openAlexLocation struct {
	Source openAlexVenue `json:"source"`
}

type openAlexVenue struct {
	DisplayName string `json:"display_name"`
}
