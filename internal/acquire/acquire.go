// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package acquire attempts full-text retrieval for candidate records. Each
// record walks an ordered list of download strategies and stops at the
// first validated PDF; exhausting them all finalizes the record as
// abstract-only. That is a terminal per-record state, not a pipeline
// failure.
package acquire

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/internal/search"
	"github.com/openlit/harvester/internal/session"
	"github.com/openlit/harvester/pkg/types"
)

// ncbiPMCBase is the NCBI PMC article root used to derive canonical PDF
// URLs. Declared as a var so tests can substitute an httptest server.
var ncbiPMCBase = "https://www.ncbi.nlm.nih.gov/pmc/articles/"

// europePMCRenderBase is the Europe PMC PDF-render endpoint root.
var europePMCRenderBase = "https://europepmc.org/articles/"

// maxTitleStem bounds the sanitized-title portion of a download filename.
const maxTitleStem = 80

// Acquirer downloads and validates full-text PDFs for records.
type Acquirer struct {
	Client  *httpx.Client
	Session *session.Session
	Logger  zerolog.Logger

	// MinPDFSize is the smallest byte size accepted as a plausible PDF.
	MinPDFSize int64

	// ContactEmail enables the Unpaywall DOI-resolution strategy.
	ContactEmail string

	// CountPages reports the number of renderable pages in a PDF file.
	// Defaults to the pdfcpu-backed counter; tests inject stubs.
	CountPages PageCounter
}

// AcquireAll runs the strategy chain for every record in place. Records
// that never produce a valid file end as AccessAbstractOnly with
// DownloadFailed set; no error escapes this stage.
func (a *Acquirer) AcquireAll(ctx context.Context, records []types.Record) {
	for i := range records {
		a.acquireOne(ctx, &records[i], i)
	}
}

func (a *Acquirer) acquireOne(ctx context.Context, rec *types.Record, seq int) {
	dest := filepath.Join(a.Session.PDFDir, fmt.Sprintf("%s_%03d.pdf", SanitizeFilename(rec.Title, maxTitleStem), seq))

	for _, candidate := range a.strategies(ctx, rec) {
		if candidate == "" {
			continue
		}
		if err := a.download(ctx, candidate, dest); err != nil {
			a.Session.LogWarning(rec.Source, fmt.Sprintf("download failed for %q: %v", candidate, err))
			continue
		}
		if err := a.validate(dest); err != nil {
			// Never leave an invalid file on disk.
			os.Remove(dest)
			a.Session.LogWarning(rec.Source, fmt.Sprintf("invalid download from %q: %v", candidate, err))
			continue
		}

		info, err := os.Stat(dest)
		if err != nil {
			os.Remove(dest)
			continue
		}
		rec.AccessType = types.AccessPDF
		rec.LocalPDFPath = dest
		rec.FileSize = info.Size()
		rec.DownloadFailed = false
		a.Logger.Debug().Str("title", rec.Title).Str("path", dest).Msg("full text acquired")
		return
	}

	rec.AccessType = types.AccessAbstractOnly
	rec.DownloadFailed = true
}

// strategies yields candidate PDF URLs in priority order: the record's
// own link, the canonical NCBI PMC forms, the Europe PMC render endpoint
// for records it sourced, then an Unpaywall DOI resolution.
func (a *Acquirer) strategies(ctx context.Context, rec *types.Record) []string {
	var urls []string
	seen := make(map[string]bool)
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			urls = append(urls, u)
		}
	}

	add(rec.PDFURL)

	if rec.PMCID != "" {
		pmcid := rec.PMCID
		if !strings.HasPrefix(pmcid, "PMC") {
			pmcid = "PMC" + pmcid
		}
		add(ncbiPMCBase + pmcid + "/pdf/")
		add(ncbiPMCBase + pmcid + "/pdf")

		if rec.Source == search.SourceEuropePMC {
			add(europePMCRenderBase + pmcid + "?pdf=render")
		}
	}

	if rec.DOI != "" && a.ContactEmail != "" {
		if oaURL, err := a.resolveUnpaywall(ctx, rec.DOI); err == nil {
			add(oaURL)
		} else {
			a.Session.LogWarning(rec.Source, fmt.Sprintf("open-access lookup failed for doi %s: %v", rec.DOI, err))
		}
	}

	return urls
}

// download streams url to destPath through a temporary file, renaming on
// success so a partial write never looks like a finished download. Each
// call consumes one rate-limiter slot via the shared client.
func (a *Acquirer) download(ctx context.Context, url, destPath string) error {
	resp, err := a.Client.Get(ctx, url, "application/pdf")
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".acquire-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// SanitizeFilename makes name safe for storage: filesystem-hostile
// characters become underscores, length is bounded, and an empty result
// falls back to a stable stem.
func SanitizeFilename(name string, maxLen int) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		}
		return r
	}, name)

	if len(name) > maxLen {
		name = name[:maxLen]
	}
	name = strings.Trim(name, " .")
	if name == "" {
		return "unnamed_file"
	}
	return name
}
