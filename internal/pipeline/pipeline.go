// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline composes the full query lifecycle: session setup,
// multi-source search, full-text acquisition, packaging, and catalog
// persistence. One Run call is one complete, isolated session.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlit/harvester/internal/acquire"
	"github.com/openlit/harvester/internal/httpx"
	"github.com/openlit/harvester/internal/report"
	"github.com/openlit/harvester/internal/search"
	"github.com/openlit/harvester/internal/session"
	"github.com/openlit/harvester/internal/store"
	"github.com/openlit/harvester/pkg/types"
)

// Query length bounds enforced before any network activity.
const (
	minQueryLen = 3
	maxQueryLen = 500
)

// queryBlocklist holds characters rejected in queries outright. They have
// no place in a literature topic and show up in injection probes.
const queryBlocklist = "<>{}|^`"

// Request is one caller search invocation.
type Request struct {
	Query      string
	MaxResults int
	YearRange  *types.YearRange
}

// Pipeline wires the stages together around shared configuration. Build
// one per process; Run may be called repeatedly, each call producing an
// independent session.
type Pipeline struct {
	Config types.PipelineConfig
	Logger zerolog.Logger

	// Catalog is optional; when nil, completed sessions are not recorded
	// in the history database.
	Catalog *store.Store
}

// New returns a Pipeline over cfg.
func New(cfg types.PipelineConfig, logger zerolog.Logger) *Pipeline {
	return &Pipeline{Config: cfg, Logger: logger}
}

// Run executes one query end to end and always returns a well-formed
// report. Internal failures, including panics in any stage, surface as an
// error-status report rather than an error return; the only hard failure
// left to the caller is a report with StatusError and a Message.
func (p *Pipeline) Run(ctx context.Context, req Request) (rep types.Report) {
	defer func() {
		if r := recover(); r != nil {
			p.Logger.Error().Interface("panic", r).Msg("pipeline panic")
			rep = report.ErrorReport(rep.SessionID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := ValidateQuery(req.Query); err != nil {
		return report.ErrorReport("", err.Error())
	}
	maxResults := types.ClampResultCap(req.MaxResults)

	s, err := session.New(p.Config.DownloadsDir, req.Query, req.YearRange)
	if err != nil {
		return report.ErrorReport("", fmt.Sprintf("creating session: %v", err))
	}
	p.Logger.Info().Str("session", s.ID).Str("query", req.Query).Int("max_results", maxResults).Msg("session started")

	limiter := httpx.NewLimiter(p.minInterval())
	searchClient := httpx.NewClient(p.Config.Search.HTTPConfig, limiter)

	orch := &search.Orchestrator{
		Sources: search.Sources(searchClient, p.Config.Search),
		Session: s,
		Logger:  p.Logger,
	}
	records := orch.Run(ctx, req.Query, maxResults, req.YearRange)

	acq := &acquire.Acquirer{
		Client:       httpx.NewClient(p.Config.Acquisition.HTTPConfig, limiter),
		Session:      s,
		Logger:       p.Logger,
		MinPDFSize:   p.Config.Acquisition.MinPDFSize,
		ContactEmail: p.Config.Acquisition.ContactEmail,
	}
	acq.AcquireAll(ctx, records)

	rep = report.Build(s, records)

	if p.Catalog != nil {
		if err := p.Catalog.SaveReport(ctx, req.Query, rep, s.CreatedAt); err != nil {
			p.Logger.Warn().Err(err).Msg("catalog save failed")
		}
	}

	p.Logger.Info().
		Str("session", s.ID).
		Int("papers", rep.Count).
		Int("pdfs", rep.PDFCount).
		Int("abstracts", rep.AbstractCount).
		Msg("session complete")
	return rep
}

// ValidateQuery rejects queries that are too short to mean anything, too
// long to be a topic, or carrying blocklisted characters.
func ValidateQuery(query string) error {
	q := strings.TrimSpace(query)
	if len(q) < minQueryLen {
		return fmt.Errorf("query too short: need at least %d characters", minQueryLen)
	}
	if len(q) > maxQueryLen {
		return fmt.Errorf("query too long: at most %d characters", maxQueryLen)
	}
	if i := strings.IndexAny(q, queryBlocklist); i >= 0 {
		return fmt.Errorf("query contains forbidden character %q", q[i])
	}
	return nil
}

func (p *Pipeline) minInterval() time.Duration {
	if p.Config.Search.MinRequestInterval != 0 {
		return p.Config.Search.MinRequestInterval
	}
	return httpx.DefaultMinInterval
}
