//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(path string) Run {
	return Run{
		Path:            path,
		Filename:        filepath.Base(path),
		ContentHash:     "abc123",
		Method:          "structured",
		PageCount:       10,
		OutlineCount:    3,
		AnnotationCount: 1,
		LinkCount:       5,
		ImageCount:      2,
		FontCount:       4,
		ContentChars:    12000,
		OutputDir:       "/tmp/test_extracted",
	}
}

// ---------------------------------------------------------------------------
// Schema / construction
// ---------------------------------------------------------------------------

func TestNew(t *testing.T) {
	s := newTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil *sql.DB")
	}
}

func TestNewCreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	dbPath := filepath.Join(dir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store in nested dir: %v", err)
	}
	s.Close()
}

func TestMigrationsReachCurrentVersion(t *testing.T) {
	s := newTestStore(t)

	var v int
	if err := s.DB().QueryRow("SELECT MAX(version) FROM schema_version").Scan(&v); err != nil {
		t.Fatalf("reading schema version: %v", err)
	}
	if v != 2 {
		t.Errorf("schema version = %d, want 2", v)
	}

	// The migration-added columns must round-trip.
	run := sampleRun("/tmp/migrated.pdf")
	if _, err := s.LogRun(context.Background(), run); err != nil {
		t.Fatalf("logging run: %v", err)
	}
	got, err := s.LastRun(context.Background(), "/tmp/migrated.pdf")
	if err != nil || got == nil {
		t.Fatalf("last run: %v", err)
	}
	if got.FontCount != run.FontCount || got.ContentChars != run.ContentChars {
		t.Errorf("migrated columns not persisted: %+v", got)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	for i := 0; i < 2; i++ {
		s, err := New(dbPath)
		if err != nil {
			t.Fatalf("open %d: %v", i, err)
		}
		s.Close()
	}
}

// ---------------------------------------------------------------------------
// Run history
// ---------------------------------------------------------------------------

func TestLogAndListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.LogRun(ctx, sampleRun("/tmp/a.pdf"))
	if err != nil {
		t.Fatalf("logging run: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero run id")
	}
	if _, err := s.LogRun(ctx, sampleRun("/tmp/b.pdf")); err != nil {
		t.Fatalf("logging second run: %v", err)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	// Newest first.
	if runs[0].Path != "/tmp/b.pdf" {
		t.Errorf("expected newest run first, got %q", runs[0].Path)
	}
	got := runs[1]
	if got.Method != "structured" || got.PageCount != 10 || got.FontCount != 4 {
		t.Errorf("run fields not persisted: %+v", got)
	}
	if got.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
}

func TestListRunsLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"/tmp/a.pdf", "/tmp/b.pdf", "/tmp/c.pdf"} {
		if _, err := s.LogRun(ctx, sampleRun(p)); err != nil {
			t.Fatalf("logging run: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("listing runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
}

func TestLastRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleRun("/tmp/a.pdf")
	first.ContentHash = "hash-v1"
	if _, err := s.LogRun(ctx, first); err != nil {
		t.Fatalf("logging run: %v", err)
	}
	second := sampleRun("/tmp/a.pdf")
	second.ContentHash = "hash-v2"
	if _, err := s.LogRun(ctx, second); err != nil {
		t.Fatalf("logging run: %v", err)
	}

	got, err := s.LastRun(ctx, "/tmp/a.pdf")
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if got == nil {
		t.Fatal("expected a run")
	}
	if got.ContentHash != "hash-v2" {
		t.Errorf("expected latest run, got hash %q", got.ContentHash)
	}
}

func TestLastRunUnknownPath(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LastRun(context.Background(), "/tmp/never-seen.pdf")
	if err != nil {
		t.Fatalf("last run: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for unknown path, got %+v", got)
	}
}
