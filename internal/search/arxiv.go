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

// arxivBase is the arXiv Atom query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivBase = "https://export.arxiv.org/api/query"

// Arxiv queries the arXiv Atom API. Results are requested sorted by
// relevance so arXiv's ordering is consistent with the other sources'
// default ranking.
type Arxiv struct {
	Client *httpx.Client
}

func (s *Arxiv) Name() string { return "arXiv" }

// Fetch queries arXiv and maps Atom entries onto Records.
func (s *Arxiv) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", maxResults)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}
	reqURL := arxivBase + "?" + params.Encode()

	resp, err := s.Client.Get(ctx, reqURL, "application/atom+xml")
	if err != nil {
		return nil, fmt.Errorf("arXiv request: %w", err)
	}
	defer resp.Body.Close()

	body, err := httpx.ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("arXiv response: %w", err)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv feed: %w", err)
	}

	var records []types.Record
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		var authors []string
		for _, a := range entry.Authors {
			authors = append(authors, strings.TrimSpace(a.Name))
		}

		rec := types.Record{
			Title:    orDefault(collapseWhitespace(entry.Title), types.PlaceholderTitle),
			Authors:  joinAuthors(authors),
			Abstract: types.TruncateAbstract(orDefault(collapseWhitespace(entry.Summary), types.PlaceholderAbstract)),
			DOI:      normalizeDOI(entry.DOI),
			Year:     yearOf(entry.Published),
			Journal:  "arXiv",
			ArxivID:  arxivID,
			PDFURL:   "https://arxiv.org/pdf/" + arxivID,
			Source:   "arXiv",
		}
		records = append(records, rec)
	}
	return records, nil
}

// collapseWhitespace folds the newlines arXiv inserts into titles and
// summaries.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" -> "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix ("v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		digitsOnly := true
		for _, r := range id[vIdx+1:] {
			if r < '0' || r > '9' {
				digitsOnly = false
				break
			}
		}
		if digitsOnly && vIdx+1 < len(id) {
			id = id[:vIdx]
		}
	}
	return id
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	DOI       string        `xml:"doi"`
	Authors   []arxivAuthor `xml:"author"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}
