// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "harvester/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the search stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults caps results requested per source. Callers are clamped
	// to [MinResultCap, MaxResultCap].
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MinRequestInterval is the minimum spacing between any two outbound
	// requests, shared across all sources (default 1s).
	MinRequestInterval time.Duration `json:"min_request_interval" yaml:"min_request_interval"`

	// CoreAPIKey authenticates against the CORE v3 API. The CORE source
	// is skipped with a warning when empty.
	CoreAPIKey string `json:"core_api_key,omitempty" yaml:"core_api_key,omitempty"`

	// SemanticScholarAPIKey raises Semantic Scholar rate limits. Optional.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// ContactEmail is sent to APIs operating polite pools (OpenAlex
	// mailto, Unpaywall).
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// Result cap bounds applied to caller-supplied max-results values.
const (
	MinResultCap     = 1
	MaxResultCap     = 50
	DefaultResultCap = 20
)

// ClampResultCap bounds n to [MinResultCap, MaxResultCap], substituting
// DefaultResultCap for non-positive values.
func ClampResultCap(n int) int {
	if n <= 0 {
		return DefaultResultCap
	}
	if n < MinResultCap {
		return MinResultCap
	}
	if n > MaxResultCap {
		return MaxResultCap
	}
	return n
}

// AcquisitionConfig holds settings for the full-text acquisition stage.
type AcquisitionConfig struct {
	HTTPConfig `yaml:",inline"`

	// MinPDFSize is the smallest byte size accepted as a plausible PDF.
	MinPDFSize int64 `json:"min_pdf_size" yaml:"min_pdf_size"`

	// ContactEmail is required by the Unpaywall lookup strategy.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// CatalogConfig holds settings for the session catalog.
type CatalogConfig struct {
	// Dir is the directory holding the catalog database (harvester.db).
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Search      SearchConfig      `json:"search" yaml:"search"`
	Acquisition AcquisitionConfig `json:"acquisition" yaml:"acquisition"`
	Catalog     CatalogConfig     `json:"catalog" yaml:"catalog"`

	// DownloadsDir is the base directory under which per-session working
	// directories are created.
	DownloadsDir string `json:"downloads_dir" yaml:"downloads_dir"`
}
