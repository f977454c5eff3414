// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a SQLite database over persisted extraction
// records so downstream screening and analysis tools can query papers and
// full-text search section contents without re-reading every JSON file.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/papervisor/internal/record"
	"github.com/pdiddy/papervisor/pkg/types"
)

// Store manages the record index database at <project>/index/papervisor.db.
type Store struct {
	db         *sql.DB
	indexDir   string
	maxResults int
}

// NewStore opens or creates the index database and bootstraps the schema.
func NewStore(cfg types.IndexConfig) (*Store, error) {
	dir := cfg.IndexRoot()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, types.IndexDatabase)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, indexDir: dir, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			year INTEGER,
			doi TEXT,
			source TEXT,
			url TEXT,
			extracted_at TEXT,
			total_pages INTEGER,
			text_length INTEGER,
			method TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			paper_id TEXT NOT NULL REFERENCES papers(id),
			name TEXT NOT NULL,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sections_paper_id ON sections(paper_id)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			paper_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over section content, kept in sync by triggers.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='sections_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE sections_fts USING fts5(content, content=sections, content_rowid=rowid)`,
			`CREATE TRIGGER sections_ai AFTER INSERT ON sections BEGIN
				INSERT INTO sections_fts(rowid, content) VALUES (new.rowid, new.content);
			END`,
			`CREATE TRIGGER sections_ad AFTER DELETE ON sections BEGIN
				INSERT INTO sections_fts(sections_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			END`,
			`CREATE TRIGGER sections_au AFTER UPDATE ON sections BEGIN
				INSERT INTO sections_fts(sections_fts, rowid, content) VALUES('delete', old.rowid, old.content);
				INSERT INTO sections_fts(rowid, content) VALUES (new.rowid, new.content);
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

// IngestSummary holds counts from an index ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of records processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any records failed to index.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest reads extraction record JSON files from recordsDir and populates
// the database incrementally: unchanged files (by mod time) are skipped,
// changed papers are re-indexed with their old sections replaced.
func (s *Store) Ingest(ctx context.Context, recordsDir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(recordsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading records directory %s: %w", recordsDir, err)
	}

	var summary IngestSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path := filepath.Join(recordsDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		rec, err := record.Read(path)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", entry.Name(), err)
			summary.Failed++
			continue
		}

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE paper_id = ?`, rec.PaperID,
		).Scan(&storedModTime)
		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", rec.PaperID)
			summary.Skipped++
			continue
		}
		isUpdate := err == nil

		if err := s.ingestRecord(ctx, rec, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", rec.PaperID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s\n", rec.PaperID)
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s\n", rec.PaperID)
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	if summary.Indexed > 0 || summary.Updated > 0 {
		if err := s.Export(ctx); err != nil {
			fmt.Fprintf(w, "warning: export write failed: %v\n", err)
		}
	}
	return summary, nil
}

func (s *Store) ingestRecord(ctx context.Context, rec *types.ExtractedRecord, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE paper_id = ?`, rec.PaperID); err != nil {
			return fmt.Errorf("deleting old sections: %w", err)
		}
	}

	authorsJSON, _ := json.Marshal(rec.Authors)
	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, year, doi, source, url, extracted_at, total_pages, text_length, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, year=excluded.year,
			doi=excluded.doi, source=excluded.source, url=excluded.url,
			extracted_at=excluded.extracted_at, total_pages=excluded.total_pages,
			text_length=excluded.text_length, method=excluded.method`,
		rec.PaperID, rec.Title, string(authorsJSON), rec.Year, rec.DOI,
		rec.Source, rec.URL, rec.Metadata.ExtractedAt.Format(time.RFC3339),
		rec.Metadata.TotalPages, rec.Metadata.TextLength, rec.Metadata.Method,
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (paper_id, name, content) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, name := range types.CanonicalSections() {
		content := rec.Sections[name]
		if content == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rec.PaperID, string(name), content); err != nil {
			return fmt.Errorf("inserting section %s: %w", name, err)
		}
	}
	for name, content := range rec.AdditionalSections {
		if content == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, rec.PaperID, name, content); err != nil {
			return fmt.Errorf("inserting section %s: %w", name, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (paper_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(paper_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		rec.PaperID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}

// Hit is one full-text search result.
type Hit struct {
	PaperID string
	Title   string
	Year    int
	Section string
	Snippet string
}

// Search runs an FTS5 query over section contents and returns matches
// ranked by relevance. limit <= 0 selects the configured default.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.title, p.year, sec.name,
			snippet(sections_fts, 0, '[', ']', '...', 12)
		 FROM sections_fts
		 JOIN sections sec ON sec.rowid = sections_fts.rowid
		 JOIN papers p ON p.id = sec.paper_id
		 WHERE sections_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var year sql.NullInt64
		if err := rows.Scan(&h.PaperID, &h.Title, &year, &h.Section, &h.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		h.Year = int(year.Int64)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
