package database

import "fmt"

// journalSchema holds the two operation collections. They were designed at
// different times and kept their historical column names; the ledger module
// resolves the naming variance when it merges them.
const journalSchema = `
CREATE TABLE IF NOT EXISTS operations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	result TEXT NOT NULL,
	initial_capital REAL,
	monto_rb REAL,
	final_capital REAL,
	kelly_used REAL,
	type TEXT NOT NULL DEFAULT 'kelly',
	source_collection TEXT,
	source_id TEXT,
	created_at TEXT NOT NULL,
	UNIQUE(source_collection, source_id)
);
CREATE INDEX IF NOT EXISTS idx_operations_owner ON operations(owner_id);

CREATE TABLE IF NOT EXISTS fixed_operations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id TEXT NOT NULL,
	result TEXT NOT NULL,
	initial_capital REAL,
	monto_rb REAL,
	final_capital REAL,
	risk_percentage REAL,
	fecha_hora_apertura TEXT,
	fecha_hora_cierre TEXT,
	observaciones TEXT,
	imagen_url TEXT,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_fixed_operations_owner ON fixed_operations(owner_id);
`

const configSchema = `
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	description TEXT,
	updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	uid TEXT PRIMARY KEY,
	email TEXT,
	created_at TEXT NOT NULL,
	last_seen_at TEXT NOT NULL
);
`

// MigrateJournal creates the operation tables
func (db *DB) MigrateJournal() error {
	if _, err := db.conn.Exec(journalSchema); err != nil {
		return fmt.Errorf("failed to migrate journal schema: %w", err)
	}
	return nil
}

// MigrateConfig creates the settings and users tables
func (db *DB) MigrateConfig() error {
	if _, err := db.conn.Exec(configSchema); err != nil {
		return fmt.Errorf("failed to migrate config schema: %w", err)
	}
	return nil
}
