// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session owns the per-query working directory and the three
// append-only session logs. A Session is created at the start of one
// search, mutated throughout adapter execution and acquisition, and
// terminated when the packager emits the final report. Sessions are never
// reused across queries.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/openlit/harvester/pkg/types"
)

// Source outcome statuses recorded in the search log.
const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Working directory subfolder names, consumed by the download collaborator.
const (
	PDFDirName       = "Full_PDFs"
	AbstractsDirName = "Abstracts"
	ErrorsDirName    = "Errors"
)

// ErrorEntry is one error log record.
type ErrorEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

// WarningEntry is one warning log record.
type WarningEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Message   string    `json:"message"`
}

// SearchEntry records one adapter invocation outcome. It is internal
// telemetry; it never surfaces to the end user directly.
type SearchEntry struct {
	Timestamp   time.Time `json:"timestamp"`
	Source      string    `json:"source"`
	Query       string    `json:"query"`
	ResultCount int       `json:"result_count"`
	Status      string    `json:"status"`
}

// Session is one complete execution of a query through the pipeline.
type Session struct {
	ID        string
	Query     string
	YearRange *types.YearRange
	CreatedAt time.Time

	// Dir is the session working directory; the three subdirectories
	// below live under it.
	Dir          string
	PDFDir       string
	AbstractsDir string
	ErrorsDir    string

	errors   []ErrorEntry
	warnings []WarningEntry
	searches []SearchEntry
}

// New creates the session working directory tree under baseDir and returns
// the session. The session ID is derived from the creation time.
func New(baseDir, query string, yearRange *types.YearRange) (*Session, error) {
	now := time.Now()
	id := "Search_" + now.Format("20060102_150405")

	s := &Session{
		ID:        id,
		Query:     query,
		YearRange: yearRange,
		CreatedAt: now,
		Dir:       filepath.Join(baseDir, id),
	}
	s.PDFDir = filepath.Join(s.Dir, PDFDirName)
	s.AbstractsDir = filepath.Join(s.Dir, AbstractsDirName)
	s.ErrorsDir = filepath.Join(s.Dir, ErrorsDirName)

	for _, dir := range []string{s.PDFDir, s.AbstractsDir, s.ErrorsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating session directory %s: %w", dir, err)
		}
	}
	return s, nil
}

// LogError appends an error entry for source.
func (s *Session) LogError(source string, err error, details string) {
	s.errors = append(s.errors, ErrorEntry{
		Timestamp: time.Now(),
		Source:    source,
		Message:   err.Error(),
		Details:   details,
	})
}

// LogWarning appends a warning entry for source.
func (s *Session) LogWarning(source, message string) {
	s.warnings = append(s.warnings, WarningEntry{
		Timestamp: time.Now(),
		Source:    source,
		Message:   message,
	})
}

// LogSearch appends a source outcome to the search log.
func (s *Session) LogSearch(source, query string, resultCount int, status string) {
	s.searches = append(s.searches, SearchEntry{
		Timestamp:   time.Now(),
		Source:      source,
		Query:       query,
		ResultCount: resultCount,
		Status:      status,
	})
}

// Errors returns the error log in append order.
func (s *Session) Errors() []ErrorEntry { return s.errors }

// Warnings returns the warning log in append order.
func (s *Session) Warnings() []WarningEntry { return s.warnings }

// Searches returns the search log in append order.
func (s *Session) Searches() []SearchEntry { return s.searches }
