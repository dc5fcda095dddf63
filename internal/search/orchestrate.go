// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/openlit/harvester/internal/session"
	"github.com/openlit/harvester/pkg/types"
)

// warner is implemented by sources that accumulate non-fatal warnings
// (scraped sources reporting parse misses).
type warner interface {
	Warnings() []string
}

// Orchestrator drives all source adapters for one query, isolates
// per-source failures, and assembles the deduplicated, ranked candidate
// pool. Execution is strictly sequential in registry order, so the
// search log and candidate accumulation are reproducible for a given
// provider availability snapshot.
type Orchestrator struct {
	Sources []Source
	Session *session.Session
	Logger  zerolog.Logger
}

// Run executes the query against every source. A single source's failure
// never aborts the others: the pipeline degrades to whatever subset
// succeeded, and an empty pool is a valid terminal state.
func (o *Orchestrator) Run(ctx context.Context, query string, maxResults int, yearRange *types.YearRange) []types.Record {
	var pool []types.Record

	for _, src := range o.Sources {
		records, err := fetchIsolated(ctx, src, query, maxResults)

		if w, ok := src.(warner); ok {
			for _, msg := range w.Warnings() {
				o.Session.LogWarning(src.Name(), msg)
				o.Logger.Warn().Str("source", src.Name()).Msg(msg)
			}
		}

		if err != nil {
			o.Session.LogError(src.Name(), err, "query="+query)
			o.Session.LogSearch(src.Name(), query, 0, session.StatusFailed)
			o.Logger.Warn().Str("source", src.Name()).Err(err).Msg("source failed")
			continue
		}

		if yearRange != nil {
			records = FilterByYear(records, *yearRange)
		}
		valid := ValidateAndScore(records, query)

		o.Session.LogSearch(src.Name(), query, len(valid), session.StatusSuccess)
		o.Logger.Info().Str("source", src.Name()).Int("results", len(valid)).Msg("source done")

		pool = append(pool, valid...)
	}

	unique := Deduplicate(pool)
	SortByScore(unique)

	o.Logger.Info().
		Int("candidates", len(pool)).
		Int("unique", len(unique)).
		Msg("aggregation complete")
	return unique
}

// fetchIsolated invokes src under a catch-all boundary: a panicking
// adapter is reported as a failed source, never as a crashed pipeline.
func fetchIsolated(ctx context.Context, src Source, query string, maxResults int) (records []types.Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			records = nil
			err = fmt.Errorf("source panic: %v", r)
		}
	}()
	return src.Fetch(ctx, query, maxResults)
}
