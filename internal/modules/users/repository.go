// Package users keeps a record of every authenticated identity that has
// used the service (first-login bookkeeping).
package users

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/auth"
)

// Repository handles the users table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a users repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "users").Logger(),
	}
}

// Record upserts a resolved identity, bumping last_seen_at
func (r *Repository) Record(identity auth.Identity) error {
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.Exec(`
		INSERT INTO users (uid, email, created_at, last_seen_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			email = excluded.email,
			last_seen_at = excluded.last_seen_at
	`, identity.UID, nullString(identity.Email), now, now)
	if err != nil {
		return fmt.Errorf("failed to record user: %w", err)
	}
	return nil
}

// Count returns the number of known users
func (r *Repository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
