// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report assembles the pipeline's terminal output: the per-query
// report, the CSV log artifacts, per-record abstract files, the session
// manifest, and the session zip archive.
package report

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/openlit/harvester/internal/acquire"
	"github.com/openlit/harvester/internal/session"
	"github.com/openlit/harvester/pkg/types"
)

// Log artifact filenames written into the session's Errors folder.
const (
	ErrorsCSV   = "errors.csv"
	WarningsCSV = "warnings.csv"
	SearchesCSV = "search_log.csv"
)

// Build computes the summary report for the final record set and writes
// all session artifacts: CSV logs, abstract sidecars, the manifest, and
// the zip archive. Artifact write failures downgrade to logged warnings;
// the report itself is always produced.
func Build(s *session.Session, records []types.Record) types.Report {
	rep := types.Report{
		Status:    types.StatusSuccess,
		Count:     len(records),
		Papers:    records,
		SessionID: s.ID,
	}
	for _, rec := range records {
		if rec.AccessType == types.AccessPDF {
			rep.PDFCount++
		} else {
			rep.AbstractCount++
		}
	}

	if err := writeAbstracts(s, records); err != nil {
		s.LogWarning("packager", fmt.Sprintf("writing abstracts: %v", err))
	}
	if err := writeManifest(s, records); err != nil {
		s.LogWarning("packager", fmt.Sprintf("writing manifest: %v", err))
	}
	// Logs flush last so the warnings above land in the artifacts.
	if err := WriteLogs(s); err != nil {
		s.LogWarning("packager", fmt.Sprintf("writing logs: %v", err))
	}

	rep.ErrorCount = len(s.Errors())
	rep.WarningCount = len(s.Warnings())

	archive, err := zipSessionDir(s)
	if err == nil {
		rep.ArchivePath = archive
	}
	return rep
}

// ErrorReport shapes a pipeline-level failure into the report contract:
// empty papers, a message, never a raw error surface.
func ErrorReport(sessionID, message string) types.Report {
	return types.Report{
		Status:    types.StatusError,
		Papers:    []types.Record{},
		SessionID: sessionID,
		Message:   message,
	}
}

// WriteLogs flushes the three session logs as CSV files into the Errors
// folder.
func WriteLogs(s *session.Session) error {
	if err := writeCSV(filepath.Join(s.ErrorsDir, ErrorsCSV),
		[]string{"timestamp", "source", "message", "details"},
		func(w *csv.Writer) error {
			for _, e := range s.Errors() {
				if err := w.Write([]string{e.Timestamp.Format(time.RFC3339), e.Source, e.Message, e.Details}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	if err := writeCSV(filepath.Join(s.ErrorsDir, WarningsCSV),
		[]string{"timestamp", "source", "message"},
		func(w *csv.Writer) error {
			for _, e := range s.Warnings() {
				if err := w.Write([]string{e.Timestamp.Format(time.RFC3339), e.Source, e.Message}); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
		return err
	}

	return writeCSV(filepath.Join(s.ErrorsDir, SearchesCSV),
		[]string{"timestamp", "source", "query", "result_count", "status"},
		func(w *csv.Writer) error {
			for _, e := range s.Searches() {
				if err := w.Write([]string{e.Timestamp.Format(time.RFC3339), e.Source, e.Query, strconv.Itoa(e.ResultCount), e.Status}); err != nil {
					return err
				}
			}
			return nil
		})
}

func writeCSV(path string, header []string, rows func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := rows(w); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	w.Flush()
	return w.Error()
}

// writeAbstracts writes one text file per record into the Abstracts
// folder so abstract-only results are still a usable deliverable.
func writeAbstracts(s *session.Session, records []types.Record) error {
	for i, rec := range records {
		name := fmt.Sprintf("%s_%03d.txt", acquire.SanitizeFilename(rec.Title, 80), i)
		var b strings.Builder
		fmt.Fprintf(&b, "Title: %s\n", rec.Title)
		fmt.Fprintf(&b, "Authors: %s\n", rec.Authors)
		fmt.Fprintf(&b, "Year: %s\n", rec.Year)
		fmt.Fprintf(&b, "Journal: %s\n", rec.Journal)
		fmt.Fprintf(&b, "DOI: %s\n", rec.DOI)
		fmt.Fprintf(&b, "Source: %s\n\n", rec.Source)
		b.WriteString(rec.Abstract)
		b.WriteString("\n")

		if err := os.WriteFile(filepath.Join(s.AbstractsDir, name), []byte(b.String()), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// sessionManifest is the YAML summary written at the session root.
type sessionManifest struct {
	SessionID string           `yaml:"session_id"`
	Query     string           `yaml:"query"`
	YearRange *types.YearRange `yaml:"year_range,omitempty"`
	CreatedAt time.Time        `yaml:"created_at"`
	Papers    []types.Record   `yaml:"papers"`
}

func writeManifest(s *session.Session, records []types.Record) error {
	m := sessionManifest{
		SessionID: s.ID,
		Query:     s.Query,
		YearRange: s.YearRange,
		CreatedAt: s.CreatedAt,
		Papers:    records,
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(filepath.Join(s.Dir, "session.yaml"), data, 0o644)
}

// zipSessionDir bundles the session working directory into
// <session_id>.zip beside it.
func zipSessionDir(s *session.Session) (string, error) {
	archivePath := s.Dir + ".zip"
	f, err := os.Create(archivePath)
	if err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	base := filepath.Dir(s.Dir)
	err = filepath.Walk(s.Dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("archiving session: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("finalizing archive: %w", err)
	}
	return archivePath, nil
}
