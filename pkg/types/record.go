// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the harvester pipeline.
package types

// AccessType indicates whether a record's full text was obtained or only
// its metadata.
type AccessType string

const (
	AccessPDF          AccessType = "PDF"
	AccessAbstractOnly AccessType = "Abstract Only"
)

// Placeholder values used when a provider omits a field. Mapping code
// substitutes these instead of failing the record.
const (
	PlaceholderTitle    = "No Title"
	PlaceholderAuthors  = "Unknown"
	PlaceholderAbstract = "Abstract not available inline"
)

// Record is a normalized bibliographic entry produced by a source adapter.
// Identity is derived from DOI or title (see the deduplicator); Source is
// provenance only and never participates in identity.
type Record struct {
	// Title is the work's title. Records with an empty or placeholder
	// title are discarded during validation.
	Title string `json:"title" yaml:"title"`

	// Authors is a free-text author list in source order.
	Authors string `json:"authors" yaml:"authors"`

	// Abstract is the abstract text, truncated to MaxAbstractLen.
	// May be PlaceholderAbstract when not retrievable inline.
	Abstract string `json:"abstract" yaml:"abstract"`

	// DOI is the normalized DOI: lower-cased, trimmed, resolver prefix
	// stripped. Empty when unknown.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Year is the 4-digit publication year, or empty when unknown.
	// An unknown year never excludes a record from year filtering.
	Year string `json:"year,omitempty" yaml:"year,omitempty"`

	// Journal is the journal or venue name.
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty"`

	// PDFURL is a candidate full-text download location.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Source-specific identifiers.
	PMID    string `json:"pmid,omitempty" yaml:"pmid,omitempty"`
	PMCID   string `json:"pmcid,omitempty" yaml:"pmcid,omitempty"`
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Source names the adapter that produced this record.
	Source string `json:"source" yaml:"source"`

	// RelevanceScore is the lexical-overlap score assigned by the
	// validator. Higher is more relevant.
	RelevanceScore int `json:"relevance_score" yaml:"relevance_score"`

	// AccessType is set by the acquisition stage.
	AccessType AccessType `json:"access_type,omitempty" yaml:"access_type,omitempty"`

	// LocalPDFPath is the path of the validated downloaded PDF. Set only
	// when AccessType is AccessPDF.
	LocalPDFPath string `json:"local_pdf_path,omitempty" yaml:"local_pdf_path,omitempty"`

	// FileSize is the size in bytes of the downloaded PDF.
	FileSize int64 `json:"file_size,omitempty" yaml:"file_size,omitempty"`

	// DownloadFailed reports that every download strategy was attempted
	// and none produced a valid file.
	DownloadFailed bool `json:"download_failed,omitempty" yaml:"download_failed,omitempty"`
}

// MaxAbstractLen bounds stored abstract text.
const MaxAbstractLen = 2000

// TruncateAbstract bounds s to MaxAbstractLen runes.
func TruncateAbstract(s string) string {
	r := []rune(s)
	if len(r) <= MaxAbstractLen {
		return s
	}
	return string(r[:MaxAbstractLen])
}

// YearRange is a closed publication-year interval.
type YearRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}
