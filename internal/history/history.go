package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// History manages matrix-resolution history in SQLite
type History struct {
	db *sql.DB
}

// NewHistory creates a new history tracker
func NewHistory(dbPath string) (*History, error) {
	// Open database connection
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for SQLite (single writer)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	h := &History{db: db}

	// Initialize schema
	if err := h.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return h, nil
}

// Close closes the database connection
func (h *History) Close() error {
	return h.db.Close()
}

// initSchema creates the database tables and indexes
func (h *History) initSchema() error {
	_, err := h.db.Exec(`
		CREATE TABLE IF NOT EXISTS resolutions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project TEXT NOT NULL,
			variant TEXT NOT NULL,
			repository TEXT NOT NULL,
			event TEXT NOT NULL,
			ref TEXT NOT NULL,
			branch_override TEXT NOT NULL DEFAULT '',
			branches TEXT NOT NULL,
			entry_count INTEGER NOT NULL,
			status TEXT NOT NULL,
			error_message TEXT,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	// Create index for efficient queries
	_, err = h.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_project_created
		ON resolutions(project, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// RecordResolution records a matrix resolution in the history
func (h *History) RecordResolution(ctx context.Context, record *ResolutionRecord) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	result, err := h.db.ExecContext(ctx, `
		INSERT INTO resolutions
		(project, variant, repository, event, ref, branch_override,
		 branches, entry_count, status, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.Project,
		record.Variant,
		record.Repository,
		record.Event,
		record.Ref,
		record.BranchOverride,
		record.Branches,
		record.EntryCount,
		record.Status,
		record.ErrorMessage,
		now,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to insert resolution record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}

	return id, nil
}

// GetLatestResolution returns the most recent resolution for a project
func (h *History) GetLatestResolution(ctx context.Context, project string) (*ResolutionRecord, error) {
	row := h.db.QueryRowContext(ctx, `
		SELECT id, project, variant, repository, event, ref, branch_override,
		       branches, entry_count, status, error_message, created_at
		FROM resolutions
		WHERE project = ?
		ORDER BY id DESC
		LIMIT 1
	`, project)

	record, err := scanResolutionRecord(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query latest resolution: %w", err)
	}

	return record, nil
}

// GetResolutionHistory returns recent resolutions for a project
func (h *History) GetResolutionHistory(ctx context.Context, project string, limit int) ([]ResolutionRecord, error) {
	rows, err := h.db.QueryContext(ctx, `
		SELECT id, project, variant, repository, event, ref, branch_override,
		       branches, entry_count, status, error_message, created_at
		FROM resolutions
		WHERE project = ?
		ORDER BY id DESC
		LIMIT ?
	`, project, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query resolution history: %w", err)
	}
	defer rows.Close()

	var records []ResolutionRecord
	for rows.Next() {
		record, err := scanResolutionRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resolution record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return records, nil
}

// scanner is an interface that both *sql.Row and *sql.Rows implement
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanResolutionRecord scans a database row into a ResolutionRecord.
// Works with both *sql.Row and *sql.Rows
func scanResolutionRecord(s scanner) (*ResolutionRecord, error) {
	var record ResolutionRecord

	err := s.Scan(
		&record.ID,
		&record.Project,
		&record.Variant,
		&record.Repository,
		&record.Event,
		&record.Ref,
		&record.BranchOverride,
		&record.Branches,
		&record.EntryCount,
		&record.Status,
		&record.ErrorMessage,
		&record.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return &record, nil
}
