// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a searchable SQLite index over resolved
// reference metadata.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/devscholar/pkg/types"
)

// Store manages the metadata index SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// NewStore opens or creates the index database at cfg.Path, creating
// the schema if it does not exist.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS refs (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			published TEXT,
			venue TEXT,
			doi TEXT,
			abstract_url TEXT,
			pdf_url TEXT,
			citation_count INTEGER,
			categories TEXT,
			fetched_at INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_refs_type ON refs(type)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='refs_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE refs_fts USING fts5(title, abstract, authors, venue, content=refs, content_rowid=rowid)`,
			`CREATE TRIGGER refs_ai AFTER INSERT ON refs BEGIN
				INSERT INTO refs_fts(rowid, title, abstract, authors, venue)
				VALUES (new.rowid, new.title, new.abstract, new.authors, new.venue);
			END`,
			`CREATE TRIGGER refs_ad AFTER DELETE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, title, abstract, authors, venue)
				VALUES('delete', old.rowid, old.title, old.abstract, old.authors, old.venue);
			END`,
			`CREATE TRIGGER refs_au AFTER UPDATE ON refs BEGIN
				INSERT INTO refs_fts(refs_fts, rowid, title, abstract, authors, venue)
				VALUES('delete', old.rowid, old.title, old.abstract, old.authors, old.venue);
				INSERT INTO refs_fts(rowid, title, abstract, authors, venue)
				VALUES (new.rowid, new.title, new.abstract, new.authors, new.venue);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// Upsert writes one metadata record, replacing any previous row for the
// same identifier.
func (s *Store) Upsert(ctx context.Context, m types.Metadata) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := upsertRecord(ctx, tx, m); err != nil {
		return err
	}
	return tx.Commit()
}

// RebuildFrom replaces the index contents with the given records and
// returns the number indexed.
func (s *Store) RebuildFrom(ctx context.Context, records []types.Metadata) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM refs`); err != nil {
		return 0, fmt.Errorf("clearing index: %w", err)
	}

	for _, m := range records {
		if err := upsertRecord(ctx, tx, m); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(records), nil
}

func upsertRecord(ctx context.Context, tx *sql.Tx, m types.Metadata) error {
	authorsJSON, _ := json.Marshal(m.Authors)
	categoriesJSON, _ := json.Marshal(m.Categories)

	_, err := tx.ExecContext(ctx,
		`INSERT INTO refs (key, type, id, title, authors, abstract, published, venue,
			doi, abstract_url, pdf_url, citation_count, categories, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			published=excluded.published, venue=excluded.venue, doi=excluded.doi,
			abstract_url=excluded.abstract_url, pdf_url=excluded.pdf_url,
			citation_count=excluded.citation_count, categories=excluded.categories,
			fetched_at=excluded.fetched_at`,
		m.Key(), string(m.Type), m.ID, m.Title, string(authorsJSON), m.Abstract,
		m.Published, m.Venue, m.DOI, m.AbstractURL, m.PDFURL,
		m.CitationCount, string(categoriesJSON), m.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting %s: %w", m.Key(), err)
	}
	return nil
}

// Count returns the number of indexed records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM refs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}
