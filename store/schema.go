package store

// schemaSQL is the DDL for the run history database.
const schemaSQL = `
-- One row per completed extraction run, hash-based change detection
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY,
    path TEXT NOT NULL,
    filename TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    method TEXT NOT NULL,
    page_count INTEGER NOT NULL,
    outline_count INTEGER DEFAULT 0,
    annotation_count INTEGER DEFAULT 0,
    link_count INTEGER DEFAULT 0,
    image_count INTEGER DEFAULT 0,
    output_dir TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_path ON runs(path);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`
