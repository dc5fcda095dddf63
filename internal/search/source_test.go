// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"testing"
	"time"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// testClient returns a client with no rate limiting, for httptest-backed
// adapter tests.
func testClient() *httpx.Client {
	return httpx.NewClient(types.HTTPConfig{Timeout: 5 * time.Second}, httpx.NewLimiter(0))
}

func TestSourcesRegistryOrder(t *testing.T) {
	sources := Sources(testClient(), types.SearchConfig{})

	want := []string{
		"PubMed Central", "Europe PMC", "arXiv", "bioRxiv", "medRxiv",
		"ChemRxiv", "OpenAlex", "Semantic Scholar", "CORE", "Zenodo",
		"DOAJ", "OpenAIRE", "Figshare", "SSRN", "MDPI", "SciELO", "Redalyc",
	}
	if len(sources) != len(want) {
		t.Fatalf("len(sources) = %d, want %d", len(sources), len(want))
	}
	for i, s := range sources {
		if s.Name() != want[i] {
			t.Errorf("sources[%d] = %q, want %q", i, s.Name(), want[i])
		}
	}
}

func TestNormalizeDOI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.1234/ABC.5678", "10.1234/abc.5678"},
		{"https://doi.org/10.1234/abc", "10.1234/abc"},
		{"http://dx.doi.org/10.1234/abc", "10.1234/abc"},
		{"doi:10.1234/abc", "10.1234/abc"},
		{"  10.1234/abc  ", "10.1234/abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeDOI(tt.in); got != tt.want {
			t.Errorf("normalizeDOI(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestYearOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2021-03-04", "2021"},
		{"2021", "2021"},
		{"21", ""},
		{"n.d.", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := yearOf(tt.in); got != tt.want {
			t.Errorf("yearOf(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJoinAuthors(t *testing.T) {
	if got := joinAuthors([]string{"A. Author", " B. Writer "}); got != "A. Author, B. Writer" {
		t.Errorf("joinAuthors = %q", got)
	}
	if got := joinAuthors(nil); got != types.PlaceholderAuthors {
		t.Errorf("joinAuthors(nil) = %q, want placeholder", got)
	}
	if got := joinAuthors([]string{"", "  "}); got != types.PlaceholderAuthors {
		t.Errorf("joinAuthors(blank) = %q, want placeholder", got)
	}
}
