// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"context"
	"fmt"
	"net/url"

	"github.com/openlit/harvester/internal/httpx"
)

// unpaywallBase is the Unpaywall DOI lookup endpoint. Declared as a var
// so tests can substitute an httptest server.
var unpaywallBase = "https://api.unpaywall.org/v2/"

// resolveUnpaywall asks Unpaywall for an open-access PDF location for
// doi. It prefers the best location's direct PDF link, then its landing
// URL, then any other listed location.
func (a *Acquirer) resolveUnpaywall(ctx context.Context, doi string) (string, error) {
	reqURL := unpaywallBase + url.PathEscape(doi) + "?email=" + url.QueryEscape(a.ContactEmail)

	resp, err := a.Client.Get(ctx, reqURL, "application/json")
	if err != nil {
		return "", fmt.Errorf("Unpaywall request: %w", err)
	}
	defer resp.Body.Close()

	var ur unpaywallResponse
	if err := httpx.DecodeJSON(resp, &ur); err != nil {
		return "", fmt.Errorf("Unpaywall response: %w", err)
	}

	locations := append([]unpaywallLocation{ur.BestOALocation}, ur.OALocations...)
	for _, loc := range locations {
		if loc.URLForPDF != "" {
			return loc.URLForPDF, nil
		}
	}
	for _, loc := range locations {
		if loc.URL != "" {
			return loc.URL, nil
		}
	}
	return "", fmt.Errorf("no open-access location for %s", doi)
}

// Unpaywall API JSON structures.
type unpaywallResponse struct {
	BestOALocation unpaywallLocation   `json:"best_oa_location"`
	OALocations    []unpaywallLocation `json:"oa_locations"`
}

type unpaywallLocation struct {
	URL       string `json:"url"`
	URLForPDF string `json:"url_for_pdf"`
}
