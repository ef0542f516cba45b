// Package database provides sqlite connection handling and schema migrations.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Profile selects the durability configuration for a database
type Profile string

const (
	// ProfileJournal - full fsync, append-heavy operation records
	ProfileJournal Profile = "journal"
	// ProfileStandard - balanced configuration for settings and users
	ProfileStandard Profile = "standard"
)

// DB wraps a sqlite connection
type DB struct {
	conn *sql.DB
	path string
	name string
}

// Config holds database configuration
type Config struct {
	Path    string
	Profile Profile
	Name    string // Friendly name for logging
}

// New opens a sqlite database with WAL mode and profile-specific PRAGMAs
func New(cfg Config) (*DB, error) {
	absPath, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	if cfg.Profile == "" {
		cfg.Profile = ProfileStandard
	}

	conn, err := sql.Open("sqlite", connectionString(absPath, cfg.Profile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", cfg.Name, err)
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(1 * time.Hour)
	conn.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", cfg.Name, err)
	}

	return &DB{conn: conn, path: absPath, name: cfg.Name}, nil
}

func connectionString(path string, profile Profile) string {
	connStr := path + "?_pragma=journal_mode(WAL)"

	switch profile {
	case ProfileJournal:
		// Fsync after every write; these rows are the system of record
		connStr += "&_pragma=synchronous(FULL)"
	default:
		connStr += "&_pragma=synchronous(NORMAL)"
		connStr += "&_pragma=temp_store(MEMORY)"
	}

	connStr += "&_pragma=foreign_keys(1)"
	connStr += "&_pragma=busy_timeout(5000)"

	return connStr
}

// Conn exposes the underlying *sql.DB for repositories
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Name returns the friendly database name
func (db *DB) Name() string {
	return db.name
}

// Path returns the absolute database file path
func (db *DB) Path() string {
	return db.path
}

// Size returns the database file size in bytes
func (db *DB) Size() (int64, error) {
	info, err := os.Stat(db.path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat database %s: %w", db.name, err)
	}
	return info.Size(), nil
}

// CheckpointPassive runs a passive WAL checkpoint.
// Returns (busy, walPages, checkpointedPages).
func (db *DB) CheckpointPassive() (int, int, int, error) {
	var busy, walPages, checkpointed int
	err := db.conn.QueryRow("PRAGMA wal_checkpoint(PASSIVE)").
		Scan(&busy, &walPages, &checkpointed)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to checkpoint %s: %w", db.name, err)
	}
	return busy, walPages, checkpointed, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
