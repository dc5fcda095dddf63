// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"https://arxiv.org/abs/cond-mat/0207270v2", "cond-mat/0207270"},
		{"http://arxiv.org/abs/2301.07041v12", "2301.07041"},
		{"http://example.org/no-abs-segment", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

const sampleArxivAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v1</id>
    <title>Deep Learning for
  Tumor Classification</title>
    <summary>We present a model
  for tumor classification.</summary>
    <published>2023-01-17T18:59:59Z</published>
    <author><name>Alice Researcher</name></author>
    <author><name>Bob Modeler</name></author>
  </entry>
  <entry>
    <id>http://example.org/not-an-arxiv-entry</id>
    <title>Skipped entry</title>
  </entry>
</feed>`

func TestArxivFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("sortBy"); got != "relevance" {
			t.Errorf("sortBy = %q, want relevance", got)
		}
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, sampleArxivAtom)
	}))
	defer ts.Close()

	old := arxivBase
	arxivBase = ts.URL
	defer func() { arxivBase = old }()

	s := &Arxiv{Client: testClient()}
	records, err := s.Fetch(context.Background(), "tumor classification", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The entry without an /abs/ ID is dropped.
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}

	r := records[0]
	if r.ArxivID != "2301.07041" {
		t.Errorf("ArxivID = %q", r.ArxivID)
	}
	// Newlines arXiv wraps into titles and summaries are collapsed.
	if r.Title != "Deep Learning for Tumor Classification" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Abstract != "We present a model for tumor classification." {
		t.Errorf("Abstract = %q", r.Abstract)
	}
	if r.Authors != "Alice Researcher, Bob Modeler" {
		t.Errorf("Authors = %q", r.Authors)
	}
	if r.Year != "2023" {
		t.Errorf("Year = %q", r.Year)
	}
	if r.PDFURL != "https://arxiv.org/pdf/2301.07041" {
		t.Errorf("PDFURL = %q", r.PDFURL)
	}
	if r.Source != "arXiv" {
		t.Errorf("Source = %q", r.Source)
	}
}
