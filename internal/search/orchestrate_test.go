// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openlit/harvester/internal/session"
	"github.com/openlit/harvester/pkg/types"
)

// fakeSource is a scriptable Source for orchestrator tests.
type fakeSource struct {
	name     string
	records  []types.Record
	err      error
	panics   bool
	warnings []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, query string, maxResults int) ([]types.Record, error) {
	if f.panics {
		panic("nil map write in " + f.name)
	}
	return f.records, f.err
}

func (f *fakeSource) Warnings() []string {
	w := f.warnings
	f.warnings = nil
	return w
}

func testSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.New(t.TempDir(), "gastric cancer treatment", nil)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	return s
}

func TestOrchestratorIsolatesFailures(t *testing.T) {
	// One healthy source among many broken ones: the run still succeeds
	// with the healthy source's results.
	good := &fakeSource{name: "good", records: []types.Record{
		{Title: "Gastric cancer treatment outcomes", DOI: "10.1/good.1"},
	}}

	sources := []Source{good}
	for i := 0; i < 16; i++ {
		sources = append(sources, &fakeSource{
			name: fmt.Sprintf("broken-%d", i),
			err:  fmt.Errorf("connection refused"),
		})
	}

	s := testSession(t)
	o := &Orchestrator{Sources: sources, Session: s, Logger: zerolog.Nop()}

	got := o.Run(context.Background(), "gastric cancer treatment", 10, nil)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if len(s.Errors()) != 16 {
		t.Errorf("error log entries = %d, want 16", len(s.Errors()))
	}

	failed := 0
	for _, e := range s.Searches() {
		if e.Status == session.StatusFailed {
			failed++
		}
	}
	if failed != 16 {
		t.Errorf("FAILED search entries = %d, want 16", failed)
	}
}

func TestOrchestratorRecoversSourcePanic(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "panicky", panics: true},
		&fakeSource{name: "good", records: []types.Record{
			{Title: "A perfectly reasonable paper title"},
		}},
	}

	s := testSession(t)
	o := &Orchestrator{Sources: sources, Session: s, Logger: zerolog.Nop()}

	got := o.Run(context.Background(), "reasonable", 10, nil)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1: panic must not abort the run", len(got))
	}
	if len(s.Errors()) != 1 {
		t.Fatalf("error log entries = %d, want 1", len(s.Errors()))
	}
	if e := s.Errors()[0]; e.Source != "panicky" {
		t.Errorf("error attributed to %q, want panicky", e.Source)
	}
}

func TestOrchestratorCollectsWarnings(t *testing.T) {
	src := &fakeSource{
		name:     "scraped",
		warnings: []string{"no result containers matched; page structure may have changed"},
	}

	s := testSession(t)
	o := &Orchestrator{Sources: []Source{src}, Session: s, Logger: zerolog.Nop()}
	o.Run(context.Background(), "anything at all", 10, nil)

	if len(s.Warnings()) != 1 {
		t.Fatalf("warning log entries = %d, want 1", len(s.Warnings()))
	}
	if w := s.Warnings()[0]; w.Source != "scraped" {
		t.Errorf("warning attributed to %q, want scraped", w.Source)
	}
}

func TestOrchestratorAppliesYearFilterAndDedup(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "a", records: []types.Record{
			{Title: "Gastric cancer treatment review", DOI: "10.1/dup.1", Year: "2021"},
			{Title: "Gastric cancer treatment outside range", DOI: "10.1/old.1", Year: "2010"},
		}},
		&fakeSource{name: "b", records: []types.Record{
			{Title: "Gastric cancer treatment review (mirror)", DOI: "doi:10.1/DUP.1", Year: "2021"},
		}},
	}

	s := testSession(t)
	o := &Orchestrator{Sources: sources, Session: s, Logger: zerolog.Nop()}

	got := o.Run(context.Background(), "gastric cancer treatment", 10, &types.YearRange{Start: 2020, End: 2022})
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (got %+v)", len(got), got)
	}
	if got[0].DOI != "10.1/dup.1" {
		t.Errorf("survivor DOI = %q", got[0].DOI)
	}
}
