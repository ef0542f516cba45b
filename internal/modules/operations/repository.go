package operations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/modules/ledger"
)

// ErrNotFound marks an operation that does not exist for this owner
var ErrNotFound = errors.New("operation not found")

// Repository handles the operations table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates an operations repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "operations").Logger(),
	}
}

// Collection identifies this repository to the ledger module
func (r *Repository) Collection() ledger.Collection {
	return ledger.CollectionOperations
}

// Insert stores a new operation and sets its id
func (r *Repository) Insert(op *Operation) error {
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(`
		INSERT INTO operations
		(owner_id, result, initial_capital, monto_rb, final_capital, kelly_used, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		op.OwnerID, op.Result, op.InitialCapital, op.MontoRb,
		op.FinalCapital, op.KellyUsed, op.Type,
		op.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation: %w", err)
	}

	op.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted operation id: %w", err)
	}

	r.log.Info().Int64("id", op.ID).Str("result", op.Result).Msg("Operation created")
	return nil
}

// Update rewrites an owner's operation in place
func (r *Repository) Update(op *Operation) error {
	result, err := r.db.Exec(`
		UPDATE operations
		SET result = ?, initial_capital = ?, monto_rb = ?, final_capital = ?, kelly_used = ?
		WHERE id = ? AND owner_id = ?
	`,
		op.Result, op.InitialCapital, op.MontoRb, op.FinalCapital, op.KellyUsed,
		op.ID, op.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one operation
func (r *Repository) Delete(ownerID string, id int64) error {
	_, err := r.db.Exec("DELETE FROM operations WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	return nil
}

// DeleteAll removes every operation of one owner
func (r *Repository) DeleteAll(ownerID string) error {
	_, err := r.db.Exec("DELETE FROM operations WHERE owner_id = ?", ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete operations: %w", err)
	}
	return nil
}

// ListByOwner returns an owner's operations, oldest first
func (r *Repository) ListByOwner(ownerID string) ([]Operation, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, result, initial_capital, monto_rb, final_capital,
		       kelly_used, type, source_collection, source_id, created_at
		FROM operations
		WHERE owner_id = ?
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []Operation
	for rows.Next() {
		var op Operation
		var initial, monto, final, kelly sql.NullFloat64
		var sourceCol, sourceID, createdAt sql.NullString

		if err := rows.Scan(
			&op.ID, &op.OwnerID, &op.Result, &initial, &monto, &final,
			&kelly, &op.Type, &sourceCol, &sourceID, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		op.InitialCapital = initial.Float64
		op.MontoRb = monto.Float64
		op.FinalCapital = final.Float64
		op.KellyUsed = kelly.Float64
		op.SourceCollection = sourceCol.String
		op.SourceID = sourceID.String
		if createdAt.Valid {
			if t, err := time.Parse(time.RFC3339, createdAt.String); err == nil {
				op.CreatedAt = t
			}
		}

		ops = append(ops, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating operations: %w", err)
	}
	return ops, nil
}

// ListRawByOwner returns an owner's rows with their raw column names for
// the ledger normalizer. SELECT * keeps columns a schema migration may add
// visible without touching this method.
func (r *Repository) ListRawByOwner(ctx context.Context, ownerID string) ([]ledger.RawRow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM operations WHERE owner_id = ? ORDER BY id ASC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw operations: %w", err)
	}
	defer rows.Close()

	return ledger.RawRowsFromSQL(rows)
}

// Upsert writes a cross-posted fixed-risk operation. A replay of the same
// (source_collection, source_id) pair updates the existing copy instead of
// creating a duplicate.
func (r *Repository) Upsert(cp CrossPost) error {
	if cp.Date.IsZero() {
		cp.Date = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO operations
		(owner_id, result, initial_capital, monto_rb, final_capital, type,
		 source_collection, source_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_collection, source_id) DO UPDATE SET
			result = excluded.result,
			initial_capital = excluded.initial_capital,
			monto_rb = excluded.monto_rb,
			final_capital = excluded.final_capital,
			created_at = excluded.created_at
	`,
		cp.OwnerID, cp.Result, cp.InitialCapital, cp.Amount, cp.FinalCapital,
		TypeFixed, cp.SourceCollection, cp.SourceID,
		cp.Date.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to cross-post operation: %w", err)
	}

	r.log.Debug().
		Str("source_collection", cp.SourceCollection).
		Str("source_id", cp.SourceID).
		Msg("Cross-posted fixed-risk operation")
	return nil
}

// DeleteBySource removes the cross-posted copy of a source row
func (r *Repository) DeleteBySource(ownerID, sourceCollection, sourceID string) error {
	_, err := r.db.Exec(`
		DELETE FROM operations
		WHERE owner_id = ? AND source_collection = ? AND source_id = ?
	`, ownerID, sourceCollection, sourceID)
	if err != nil {
		return fmt.Errorf("failed to delete cross-posted operation: %w", err)
	}
	return nil
}

// DeleteAllFromSource removes every cross-posted copy from one collection
func (r *Repository) DeleteAllFromSource(ownerID, sourceCollection string) error {
	_, err := r.db.Exec(`
		DELETE FROM operations
		WHERE owner_id = ? AND source_collection = ?
	`, ownerID, sourceCollection)
	if err != nil {
		return fmt.Errorf("failed to delete cross-posted operations: %w", err)
	}
	return nil
}
