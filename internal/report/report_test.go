// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openlit/harvester/internal/session"
	"github.com/openlit/harvester/pkg/types"
)

func testSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(t.TempDir(), "gastric cancer treatment", nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return s
}

func sampleRecords() []types.Record {
	return []types.Record{
		{
			Title:      "Gastric cancer treatment outcomes",
			Authors:    "A. Researcher",
			Abstract:   "We study outcomes.",
			DOI:        "10.1/a",
			Year:       "2021",
			AccessType: types.AccessPDF,
		},
		{
			Title:      "Another gastric paper entirely",
			Authors:    "B. Writer",
			Abstract:   "Abstract only.",
			Year:       "2020",
			AccessType: types.AccessAbstractOnly,
		},
	}
}

func TestBuildReportCounts(t *testing.T) {
	s := testSession(t)
	s.LogError("sourceX", fmt.Errorf("boom"), "")
	s.LogWarning("sourceY", "parse miss")

	rep := Build(s, sampleRecords())

	if rep.Status != types.StatusSuccess {
		t.Errorf("Status = %q", rep.Status)
	}
	if rep.Count != 2 || rep.PDFCount != 1 || rep.AbstractCount != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", rep.Count, rep.PDFCount, rep.AbstractCount)
	}
	if rep.SessionID != s.ID {
		t.Errorf("SessionID = %q", rep.SessionID)
	}
	if rep.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", rep.ErrorCount)
	}
	if rep.WarningCount != 1 {
		t.Errorf("WarningCount = %d, want 1", rep.WarningCount)
	}
}

func TestBuildWritesArtifacts(t *testing.T) {
	s := testSession(t)
	s.LogSearch("sourceX", s.Query, 2, session.StatusSuccess)

	rep := Build(s, sampleRecords())

	// CSV logs in the Errors folder.
	for _, name := range []string{ErrorsCSV, WarningsCSV, SearchesCSV} {
		if _, err := os.Stat(filepath.Join(s.ErrorsDir, name)); err != nil {
			t.Errorf("missing log artifact %s: %v", name, err)
		}
	}

	rows := readCSV(t, filepath.Join(s.ErrorsDir, SearchesCSV))
	if len(rows) != 2 {
		t.Fatalf("search log rows = %d, want header + 1", len(rows))
	}
	if rows[1][1] != "sourceX" || rows[1][3] != "2" || rows[1][4] != session.StatusSuccess {
		t.Errorf("search row = %v", rows[1])
	}

	// One abstract sidecar per record.
	entries, err := os.ReadDir(s.AbstractsDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("abstract sidecars = %d, want 2", len(entries))
	}

	// Manifest at the session root.
	manifest, err := os.ReadFile(filepath.Join(s.Dir, "session.yaml"))
	if err != nil {
		t.Fatalf("reading manifest: %v", err)
	}
	if !strings.Contains(string(manifest), "gastric cancer treatment") {
		t.Errorf("manifest missing query:\n%s", manifest)
	}

	// Zip archive beside the session directory.
	if rep.ArchivePath == "" {
		t.Fatal("ArchivePath empty")
	}
	zr, err := zip.OpenReader(rep.ArchivePath)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer zr.Close()
	if len(zr.File) == 0 {
		t.Error("archive is empty")
	}
	var hasManifest bool
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "session.yaml") {
			hasManifest = true
		}
	}
	if !hasManifest {
		t.Error("archive missing session.yaml")
	}
}

func TestBuildEmptyRecordSet(t *testing.T) {
	s := testSession(t)
	rep := Build(s, nil)

	if rep.Status != types.StatusSuccess {
		t.Errorf("Status = %q: an empty pool is a valid outcome", rep.Status)
	}
	if rep.Count != 0 || rep.PDFCount != 0 || rep.AbstractCount != 0 {
		t.Errorf("counts = %d/%d/%d, want zeros", rep.Count, rep.PDFCount, rep.AbstractCount)
	}
}

func TestErrorReportShape(t *testing.T) {
	rep := ErrorReport("Search_20260101_000000", "internal error: boom")

	if rep.Status != types.StatusError {
		t.Errorf("Status = %q", rep.Status)
	}
	if rep.Papers == nil || len(rep.Papers) != 0 {
		t.Errorf("Papers = %v, want empty non-nil slice", rep.Papers)
	}
	if rep.Message != "internal error: boom" {
		t.Errorf("Message = %q", rep.Message)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	return rows
}
