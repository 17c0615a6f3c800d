// Copyright 2023 - 2025, the Shuttle contributors
// SPDX-License-Identifier: AGPL-3.0-only

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS blobs (
	project  TEXT NOT NULL,
	revision TEXT NOT NULL,
	path     TEXT NOT NULL,
	content  BLOB NOT NULL,
	PRIMARY KEY (project, revision, path)
);
`

// SQLite stores blobs in a single SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Fetch(ctx context.Context, project, revision, path string) ([]byte, error) {
	rel, err := cleanPath(path)
	if err != nil {
		return nil, err
	}

	var content []byte

	err = s.db.QueryRowContext(ctx,
		`SELECT content FROM blobs WHERE project = ? AND revision = ? AND path = ?`,
		project, revision, rel,
	).Scan(&content)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("%w: %s", ErrNotFound, rel)
	case err != nil:
		return nil, fmt.Errorf("failed to query blob %s: %w", rel, err)
	}

	return content, nil
}

// Put stores content, replacing any blob at the same address.
func (s *SQLite) Put(ctx context.Context, project, revision, path string, content []byte) error {
	rel, err := cleanPath(path)
	if err != nil {
		return err
	}

	if content == nil {
		content = []byte{}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO blobs (project, revision, path, content) VALUES (?, ?, ?, ?)
		ON CONFLICT (project, revision, path) DO UPDATE SET content = excluded.content
	`, project, revision, rel, content)
	if err != nil {
		return fmt.Errorf("failed to store blob %s: %w", rel, err)
	}

	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
