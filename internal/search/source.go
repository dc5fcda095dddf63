// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries open-access literature providers and assembles a
// validated, deduplicated, relevance-ranked candidate pool. Each provider
// is a Source; the orchestrator drives them in a fixed order and isolates
// their failures.
package search

import (
	"context"
	"strings"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/pkg/types"
)

// Source searches a single provider. Implementations map the provider's
// native protocol (REST+JSON, REST+XML, or HTML scraping) onto the common
// Record schema. A Source reports failure through its error return; it
// must not panic past the orchestrator boundary.
type Source interface {
	Name() string
	Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error)
}

// Sources builds the full adapter registry in its fixed execution order.
// The order is deterministic per run so source outcomes and candidate
// accumulation are reproducible for a given provider availability snapshot.
func Sources(client *httpx.Client, cfg types.SearchConfig) []Source {
	return []Source{
		&PubMedCentral{Client: client},
		&EuropePMC{Client: client},
		&Arxiv{Client: client},
		scrapeSource(client, biorxivSite),
		scrapeSource(client, medrxivSite),
		&ChemRxiv{Client: client},
		&OpenAlex{Client: client, Email: cfg.ContactEmail},
		&SemanticScholar{Client: client, APIKey: cfg.SemanticScholarAPIKey},
		&Core{Client: client, APIKey: cfg.CoreAPIKey},
		&Zenodo{Client: client},
		&DOAJ{Client: client},
		&OpenAIRE{Client: client},
		&Figshare{Client: client},
		scrapeSource(client, ssrnSite),
		scrapeSource(client, mdpiSite),
		scrapeSource(client, scieloSite),
		scrapeSource(client, redalycSite),
	}
}

// normalizeDOI lower-cases, trims, and strips resolver prefixes from a DOI
// so records from different providers share one identity form.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(strings.ToLower(doi))
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "http://dx.doi.org/", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.TrimSpace(doi)
}

// yearOf extracts a 4-digit year prefix from a provider date string
// ("2021-03-04", "2021"), or returns "" when none is present.
func yearOf(date string) string {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return ""
	}
	y := date[:4]
	for _, r := range y {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return y
}

// joinAuthors renders an author name list as the free-text form Records
// carry, defaulting to the placeholder when empty.
func joinAuthors(names []string) string {
	var kept []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return types.PlaceholderAuthors
	}
	return strings.Join(kept, ", ")
}

// orDefault substitutes def for empty values after trimming.
func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}
