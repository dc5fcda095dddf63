// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleBiorxivHTML = `<!DOCTYPE html>
<html><body>
<ul>
  <li class="search-result">
    <span class="highwire-cite-title">Single-cell atlas of gastric tumors</span>
    <span class="highwire-citation-authors">A. Researcher, B. Bench</span>
    <a class="highwire-cite-linked-title" href="/content/10.1101/2021.05.01.442100v1">link</a>
    <span class="highwire-cite-metadata-date">May 3, 2021.</span>
    <span class="doi">doi: https://doi.org/10.1101/2021.05.01.442100</span>
  </li>
  <li class="search-result">
    <span class="highwire-cite-title">Second preprint on organoids</span>
    <a class="highwire-cite-linked-title" href="https://www.biorxiv.org/content/early/2">link</a>
  </li>
  <li class="search-result">
    <span class="highwire-citation-authors">Orphan authors, no title</span>
  </li>
</ul>
</body></html>`

func scrapeTestServer(t *testing.T, html string) *Scraper {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, html)
	}))
	t.Cleanup(ts.Close)

	old := biorxivScrapeBase
	biorxivScrapeBase = ts.URL
	t.Cleanup(func() { biorxivScrapeBase = old })

	return scrapeSource(testClient(), biorxivSite)
}

func TestScraperFetch(t *testing.T) {
	s := scrapeTestServer(t, sampleBiorxivHTML)

	records, err := s.Fetch(context.Background(), "gastric tumors", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	// The title-less container is skipped, not mapped to placeholders.
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2 (got %+v)", len(records), records)
	}

	r0 := records[0]
	if r0.Title != "Single-cell atlas of gastric tumors" {
		t.Errorf("Title = %q", r0.Title)
	}
	if r0.Authors != "A. Researcher, B. Bench" {
		t.Errorf("Authors = %q", r0.Authors)
	}
	if r0.Year != "2021" {
		t.Errorf("Year = %q", r0.Year)
	}
	if r0.DOI != "10.1101/2021.05.01.442100" {
		t.Errorf("DOI = %q", r0.DOI)
	}
	if r0.Source != "bioRxiv" {
		t.Errorf("Source = %q", r0.Source)
	}
	// Relative links resolve against the site base.
	want := biorxivScrapeBase + "/content/10.1101/2021.05.01.442100v1"
	if r0.PDFURL != want {
		t.Errorf("PDFURL = %q, want %q", r0.PDFURL, want)
	}

	// Absolute links pass through untouched.
	if records[1].PDFURL != "https://www.biorxiv.org/content/early/2" {
		t.Errorf("PDFURL = %q", records[1].PDFURL)
	}

	if w := s.Warnings(); len(w) != 0 {
		t.Errorf("warnings = %v, want none", w)
	}
}

func TestScraperFetchBoundsResults(t *testing.T) {
	s := scrapeTestServer(t, sampleBiorxivHTML)

	records, err := s.Fetch(context.Background(), "gastric tumors", 1)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
}

func TestScraperFetchParseMiss(t *testing.T) {
	// A page with none of the expected containers is a warning, not an
	// error: redesigned provider pages must degrade gracefully.
	s := scrapeTestServer(t, `<html><body><div class="totally-new-layout"></div></body></html>`)

	records, err := s.Fetch(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("len = %d, want 0", len(records))
	}

	w := s.Warnings()
	if len(w) != 1 {
		t.Fatalf("warnings = %v, want exactly one parse-miss warning", w)
	}
	// Warnings drain on read.
	if len(s.Warnings()) != 0 {
		t.Error("Warnings must drain after read")
	}
}

func TestScraperFetchHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	old := biorxivScrapeBase
	biorxivScrapeBase = ts.URL
	defer func() { biorxivScrapeBase = old }()

	s := scrapeSource(testClient(), biorxivSite)
	if _, err := s.Fetch(context.Background(), "anything", 10); err == nil {
		t.Fatal("want error for HTTP 503")
	}
}

func TestExtractYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"May 3, 2021.", "2021"},
		{"Posted 1999-12-31", "1999"},
		{"no year here", ""},
		{"3021 is not plausible", ""},
	}
	for _, tt := range tests {
		if got := extractYear(tt.in); got != tt.want {
			t.Errorf("extractYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
