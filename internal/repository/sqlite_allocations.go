package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/guttosm/binpack-service/internal/domain/model"
)

// sqliteTimeLayout is fixed width so created_at sorts lexically.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteAllocationsRepository keeps allocation results in a local SQLite
// file. It is used when MongoDB is disabled.
type SQLiteAllocationsRepository struct {
	db *sql.DB
}

// OpenSQLiteAllocations opens or creates the database at path.
func OpenSQLiteAllocations(path string) (*SQLiteAllocationsRepository, error) {
	if path == "" {
		return nil, errors.New("sqlite: empty db path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, stmt := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		`CREATE TABLE IF NOT EXISTS allocations (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			items_weight INTEGER NOT NULL,
			container_json TEXT NOT NULL,
			raw_json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_allocations_created ON allocations(created_at);`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: init: %w", err)
		}
	}
	return &SQLiteAllocationsRepository{db: db}, nil
}

// Save inserts alloc.
func (r *SQLiteAllocationsRepository) Save(ctx context.Context, alloc *model.Allocation) error {
	raw, err := json.Marshal(alloc)
	if err != nil {
		return err
	}
	container, err := json.Marshal(alloc.Container)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO allocations (id, created_at, item_count, items_weight, container_json, raw_json) VALUES (?, ?, ?, ?, ?, ?)`,
		alloc.ID,
		alloc.CreatedAt.UTC().Format(sqliteTimeLayout),
		len(alloc.Placements),
		alloc.ItemsWeight,
		string(container),
		string(raw),
	)
	return err
}

// Get returns the allocation with the given id, or nil if there is none.
func (r *SQLiteAllocationsRepository) Get(ctx context.Context, id string) (*model.Allocation, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT raw_json FROM allocations WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var alloc model.Allocation
	if err := json.Unmarshal([]byte(raw), &alloc); err != nil {
		return nil, fmt.Errorf("sqlite: decode allocation %s: %w", id, err)
	}
	return &alloc, nil
}

// ListRecent returns up to limit allocations, newest first.
func (r *SQLiteAllocationsRepository) ListRecent(ctx context.Context, limit int) ([]model.AllocationSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, item_count, items_weight, container_json FROM allocations ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	summaries := make([]model.AllocationSummary, 0)
	for rows.Next() {
		var (
			s         model.AllocationSummary
			createdAt string
			container string
		)
		if err := rows.Scan(&s.ID, &createdAt, &s.ItemCount, &s.ItemsWeight, &container); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(container), &s.Container); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Close closes the database.
func (r *SQLiteAllocationsRepository) Close() error {
	return r.db.Close()
}
