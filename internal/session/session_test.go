// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openlit/harvester/pkg/types"
)

func TestNewCreatesWorkingTree(t *testing.T) {
	base := t.TempDir()
	s, err := New(base, "gastric cancer treatment", &types.YearRange{Start: 2020, End: 2022})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if !strings.HasPrefix(s.ID, "Search_") {
		t.Errorf("ID = %q, want Search_ prefix", s.ID)
	}
	if s.Query != "gastric cancer treatment" {
		t.Errorf("Query = %q", s.Query)
	}
	if s.YearRange == nil || s.YearRange.Start != 2020 {
		t.Errorf("YearRange = %+v", s.YearRange)
	}

	for _, dir := range []string{s.Dir, s.PDFDir, s.AbstractsDir, s.ErrorsDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("missing directory %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("%s is not a directory", dir)
		}
	}

	if s.PDFDir != filepath.Join(s.Dir, PDFDirName) {
		t.Errorf("PDFDir = %q", s.PDFDir)
	}
	if s.AbstractsDir != filepath.Join(s.Dir, AbstractsDirName) {
		t.Errorf("AbstractsDir = %q", s.AbstractsDir)
	}
	if s.ErrorsDir != filepath.Join(s.Dir, ErrorsDirName) {
		t.Errorf("ErrorsDir = %q", s.ErrorsDir)
	}
}

func TestSessionLogsAppendInOrder(t *testing.T) {
	s, err := New(t.TempDir(), "query text here", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.LogError("sourceA", fmt.Errorf("boom"), "query=x")
	s.LogError("sourceB", fmt.Errorf("bust"), "")
	s.LogWarning("sourceA", "parse miss")
	s.LogSearch("sourceA", "query text here", 5, StatusSuccess)
	s.LogSearch("sourceB", "query text here", 0, StatusFailed)

	if got := s.Errors(); len(got) != 2 || got[0].Source != "sourceA" || got[1].Message != "bust" {
		t.Errorf("Errors() = %+v", got)
	}
	if got := s.Warnings(); len(got) != 1 || got[0].Message != "parse miss" {
		t.Errorf("Warnings() = %+v", got)
	}
	got := s.Searches()
	if len(got) != 2 {
		t.Fatalf("Searches() = %+v", got)
	}
	if got[0].Status != StatusSuccess || got[0].ResultCount != 5 {
		t.Errorf("first search entry = %+v", got[0])
	}
	if got[1].Status != StatusFailed {
		t.Errorf("second search entry = %+v", got[1])
	}
}
