// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive keeps a local SQLite record of completed research runs so
// past reports and facts can be listed and searched. The pipeline only ever
// writes here; nothing reads the archive during a run.
package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/research-assistant/pkg/types"
)

const dbFile = "archive.db"

// Store manages the research archive database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the archive database under dir, creating the schema
// on first use.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
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
		`CREATE TABLE IF NOT EXISTS reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			sub_queries TEXT NOT NULL,
			answer TEXT NOT NULL,
			source_count INTEGER NOT NULL,
			fact_count INTEGER NOT NULL,
			report_path TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS facts (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			report_id INTEGER NOT NULL REFERENCES reports(id),
			claim TEXT NOT NULL,
			caveat TEXT,
			confidence TEXT NOT NULL,
			source_url TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_facts_report_id ON facts(report_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over fact claims, with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='facts_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE facts_fts USING fts5(claim, content=facts, content_rowid=rowid)`,
			`CREATE TRIGGER facts_ai AFTER INSERT ON facts BEGIN
				INSERT INTO facts_fts(rowid, claim) VALUES (new.rowid, new.claim);
			END`,
			`CREATE TRIGGER facts_ad AFTER DELETE ON facts BEGIN
				INSERT INTO facts_fts(facts_fts, rowid, claim) VALUES('delete', old.rowid, old.claim);
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

// Save records a completed run and its facts. reportPath is the markdown
// file the run produced, if any.
func (s *Store) Save(ctx context.Context, report *types.ResearchReport, reportPath string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	subQueriesJSON, _ := json.Marshal(report.SubQueries)

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reports (question, sub_queries, answer, source_count, fact_count, report_path, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		report.Question, string(subQueriesJSON), report.Synthesis.Answer,
		len(report.Sources), len(report.Facts), reportPath,
		report.Timestamp.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting report: %w", err)
	}

	reportID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading report id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO facts (report_id, claim, caveat, confidence, source_url) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range report.Facts {
		if _, err := stmt.ExecContext(ctx, reportID, f.Claim, f.Caveat, string(f.Confidence), f.SourceURL); err != nil {
			return fmt.Errorf("inserting fact: %w", err)
		}
	}

	return tx.Commit()
}

// Entry summarizes one archived run.
type Entry struct {
	ID          int64
	Question    string
	SubQueries  []string
	Answer      string
	SourceCount int
	FactCount   int
	ReportPath  string
	CreatedAt   time.Time
}

// List returns the most recent runs, newest first, up to limit (default 10).
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, sub_queries, answer, source_count, fact_count, report_path, created_at
		 FROM reports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying reports: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var subQueriesJSON, createdAt string
		if err := rows.Scan(&e.ID, &e.Question, &subQueriesJSON, &e.Answer,
			&e.SourceCount, &e.FactCount, &e.ReportPath, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning report: %w", err)
		}
		if err := json.Unmarshal([]byte(subQueriesJSON), &e.SubQueries); err != nil {
			return nil, fmt.Errorf("parsing sub-queries: %w", err)
		}
		if e.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FactMatch is one full-text search hit over archived claims.
type FactMatch struct {
	Question   string
	Claim      string
	Caveat     string
	Confidence types.Confidence
	SourceURL  string
}

// SearchFacts runs an FTS5 match over archived claims and returns hits with
// the question that produced them.
func (s *Store) SearchFacts(ctx context.Context, query string) ([]FactMatch, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.question, f.claim, f.caveat, f.confidence, f.source_url
		 FROM facts_fts
		 JOIN facts f ON f.rowid = facts_fts.rowid
		 JOIN reports r ON r.id = f.report_id
		 WHERE facts_fts MATCH ?
		 ORDER BY rank`, query)
	if err != nil {
		return nil, fmt.Errorf("searching facts: %w", err)
	}
	defer rows.Close()

	var matches []FactMatch
	for rows.Next() {
		var m FactMatch
		var confidence string
		if err := rows.Scan(&m.Question, &m.Claim, &m.Caveat, &confidence, &m.SourceURL); err != nil {
			return nil, fmt.Errorf("scanning fact: %w", err)
		}
		m.Confidence = types.Confidence(confidence)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
