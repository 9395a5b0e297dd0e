// Package storage is the sqlite-backed record store. Every query is
// scoped by the owning user; monetary amounts are stored as integer
// cents so sums and the investment accumulator stay exact.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/AlvaroPereir4/FinScope/internal/core"
)

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens (creating if needed) the database at dbPath
// and applies migrations.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// sqlite allows one writer at a time; a single pooled connection
	// serializes access instead of surfacing SQLITE_BUSY to callers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// RecordFilter narrows list queries. Zero-valued fields are skipped.
type RecordFilter struct {
	Owner string
	From  core.Date
	To    core.Date
	// Search matches case-insensitively against description,
	// establishment, category and buyer. Income queries only match on
	// description since the other fields do not exist there.
	Search string
}

// newID generates a record id. Ids are opaque strings to callers.
func newID() uuid.UUID {
	return uuid.New()
}

// nowNanos is the stored creation timestamp. Nanosecond resolution keeps
// the feed's creation-order tie break deterministic even for records
// inserted in the same second, such as installment series members.
func nowNanos() int64 {
	return time.Now().UnixNano()
}

func timeOf(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

func cents(d decimal.Decimal) int64 {
	return core.Cents(d)
}

func amount(c int64) decimal.Decimal {
	return core.FromCents(c)
}

// nullableID maps an optional weak reference to its column value.
func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func scanNullableID(s sql.NullString) (*uuid.UUID, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.String)
	if err != nil {
		return nil, fmt.Errorf("parse reference id %q: %w", s.String, err)
	}
	return &id, nil
}
