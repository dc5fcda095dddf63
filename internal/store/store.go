// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists a catalog of completed search sessions in
// SQLite. The catalog is written once per session after packaging; it
// records outcomes only, never in-flight acquisition state.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/openlit/harvester/pkg/types"
)

const dbFile = "harvester.db"

// Store manages the session catalog database.
type Store struct {
	db *sql.DB
}

// SessionSummary is one catalog row.
type SessionSummary struct {
	ID            string
	Query         string
	Total         int
	PDFCount      int
	AbstractCount int
	ErrorCount    int
	WarningCount  int
	CreatedAt     time.Time
}

// Open opens or creates the catalog database under cfg.Dir and ensures
// the schema exists.
func Open(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			total INTEGER NOT NULL,
			pdf_count INTEGER NOT NULL,
			abstract_count INTEGER NOT NULL,
			error_count INTEGER NOT NULL,
			warning_count INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id),
			title TEXT NOT NULL,
			authors TEXT,
			doi TEXT,
			year TEXT,
			journal TEXT,
			source TEXT,
			relevance_score INTEGER,
			access_type TEXT,
			local_pdf_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_session_id ON papers(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_doi ON papers(doi)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveReport records one completed session and its final papers.
func (s *Store) SaveReport(ctx context.Context, query string, rep types.Report, createdAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions
		 (id, query, total, pdf_count, abstract_count, error_count, warning_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rep.SessionID, query, rep.Count, rep.PDFCount, rep.AbstractCount,
		rep.ErrorCount, rep.WarningCount, createdAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM papers WHERE session_id = ?`, rep.SessionID); err != nil {
		return fmt.Errorf("clearing session papers: %w", err)
	}

	for _, p := range rep.Papers {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO papers
			 (session_id, title, authors, doi, year, journal, source, relevance_score, access_type, local_pdf_path)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rep.SessionID, p.Title, p.Authors, p.DOI, p.Year, p.Journal, p.Source,
			p.RelevanceScore, string(p.AccessType), p.LocalPDFPath)
		if err != nil {
			return fmt.Errorf("inserting paper: %w", err)
		}
	}

	return tx.Commit()
}

// ListSessions returns the most recent catalog rows, newest first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, query, total, pdf_count, abstract_count, error_count, warning_count, created_at
		 FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		var created string
		if err := rows.Scan(&sum.ID, &sum.Query, &sum.Total, &sum.PDFCount, &sum.AbstractCount,
			&sum.ErrorCount, &sum.WarningCount, &created); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			sum.CreatedAt = t
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}
