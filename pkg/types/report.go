// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Report statuses. Any failure escaping the pipeline boundary is converted
// into a StatusError report; it never surfaces as a raw error to callers.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Report is the pipeline's terminal output for one query session.
type Report struct {
	// Status is StatusSuccess or StatusError.
	Status string `json:"status" yaml:"status"`

	// Count is the number of papers in the final result set.
	Count int `json:"count" yaml:"count"`

	// Papers is the deduplicated, score-ordered result set. Empty when
	// Status is StatusError.
	Papers []Record `json:"papers" yaml:"papers"`

	// SessionID identifies the session whose artifacts hold these results.
	SessionID string `json:"session_id" yaml:"session_id"`

	// PDFCount and AbstractCount split Count by access type.
	PDFCount      int `json:"pdf_count" yaml:"pdf_count"`
	AbstractCount int `json:"abstract_count" yaml:"abstract_count"`

	// ErrorCount and WarningCount aggregate the session logs.
	ErrorCount   int `json:"error_count" yaml:"error_count"`
	WarningCount int `json:"warning_count" yaml:"warning_count"`

	// Message explains the cause when Status is StatusError.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`

	// ArchivePath is the session zip archive, when one was produced.
	ArchivePath string `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`
}
