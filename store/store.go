// Package store persists extraction run history to SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run represents a row in the runs table.
type Run struct {
	ID              int64  `json:"id"`
	Path            string `json:"path"`
	Filename        string `json:"filename"`
	ContentHash     string `json:"content_hash"`
	Method          string `json:"method"`
	PageCount       int    `json:"page_count"`
	OutlineCount    int    `json:"outline_count"`
	AnnotationCount int    `json:"annotation_count"`
	LinkCount       int    `json:"link_count"`
	ImageCount      int    `json:"image_count"`
	FontCount       int    `json:"font_count"`
	ContentChars    int    `json:"content_chars"`
	OutputDir       string `json:"output_dir"`
	CreatedAt       string `json:"created_at"`
}

// Store wraps the SQLite database holding run history.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema.
func New(dbPath string) (*Store, error) {
	// Ensure parent directory exists
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	// Connection pool settings for SQLite.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// LogRun records a completed extraction run. Returns the run ID.
func (s *Store) LogRun(ctx context.Context, run Run) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (path, filename, content_hash, method, page_count,
			outline_count, annotation_count, link_count, image_count,
			font_count, content_chars, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Path, run.Filename, run.ContentHash, run.Method, run.PageCount,
		run.OutlineCount, run.AnnotationCount, run.LinkCount, run.ImageCount,
		run.FontCount, run.ContentChars, run.OutputDir)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, filename, content_hash, method, page_count,
			outline_count, annotation_count, link_count, image_count,
			font_count, content_chars, output_dir, created_at
		FROM runs ORDER BY created_at DESC, id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Path, &r.Filename, &r.ContentHash,
			&r.Method, &r.PageCount, &r.OutlineCount, &r.AnnotationCount,
			&r.LinkCount, &r.ImageCount, &r.FontCount, &r.ContentChars,
			&r.OutputDir, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRun returns the most recent run for a source path, or nil if the
// file has never been processed.
func (s *Store) LastRun(ctx context.Context, path string) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, path, filename, content_hash, method, page_count,
			outline_count, annotation_count, link_count, image_count,
			font_count, content_chars, output_dir, created_at
		FROM runs WHERE path = ? ORDER BY created_at DESC, id DESC LIMIT 1
	`, path).Scan(&r.ID, &r.Path, &r.Filename, &r.ContentHash,
		&r.Method, &r.PageCount, &r.OutlineCount, &r.AnnotationCount,
		&r.LinkCount, &r.ImageCount, &r.FontCount, &r.ContentChars,
		&r.OutputDir, &r.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}
