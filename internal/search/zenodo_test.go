// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Plain <b>bold</b> text.</p>", "Plain  bold  text."},
		{"no markup", "no markup"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestZenodoFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("type"); got != "publication" {
			t.Errorf("type param = %q, want publication", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"hits": {
				"hits": [{
					"metadata": {
						"title": "Deposited gastric cancer dataset paper",
						"description": "<p>An archived preprint.</p>",
						"doi": "10.5281/zenodo.123",
						"publication_date": "2021-09-15",
						"creators": [{"name": "Researcher, A."}],
						"journal": {"title": "Zenodo Community"}
					},
					"files": [
						{"key": "supplement.csv", "links": {"self": "https://zenodo.org/files/supplement.csv"}},
						{"key": "paper.PDF", "links": {"self": "https://zenodo.org/files/paper.pdf"}}
					]
				}]
			}
		}`)
	}))
	defer ts.Close()

	old := zenodoBase
	zenodoBase = ts.URL
	defer func() { zenodoBase = old }()

	s := &Zenodo{Client: testClient()}
	records, err := s.Fetch(context.Background(), "gastric cancer", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}

	r := records[0]
	if r.Abstract != "An archived preprint." {
		t.Errorf("Abstract = %q, want HTML stripped", r.Abstract)
	}
	if r.Year != "2021" {
		t.Errorf("Year = %q", r.Year)
	}
	// The first PDF file wins, matched case-insensitively.
	if r.PDFURL != "https://zenodo.org/files/paper.pdf" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
}
