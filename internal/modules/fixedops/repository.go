package fixedops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/modules/ledger"
)

// ErrNotFound marks a fixed-risk operation that does not exist for this owner
var ErrNotFound = errors.New("fixed operation not found")

// Repository handles the fixed_operations table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a fixed operations repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "fixedops").Logger(),
	}
}

// Collection identifies this repository to the ledger module
func (r *Repository) Collection() ledger.Collection {
	return ledger.CollectionFixedOperations
}

// Insert stores a new fixed-risk operation and sets its id
func (r *Repository) Insert(op *FixedOperation) error {
	if op.CreatedAt.IsZero() {
		op.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Exec(`
		INSERT INTO fixed_operations
		(owner_id, result, initial_capital, monto_rb, final_capital, risk_percentage,
		 fecha_hora_apertura, fecha_hora_cierre, observaciones, imagen_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		op.OwnerID, op.Result, op.InitialCapital, op.MontoRb, op.FinalCapital,
		op.RiskPercentage, nullStringPtr(op.OpenedAt), nullStringPtr(op.ClosedAt),
		nullStringPtr(op.Notes), nullStringPtr(op.ImageURL),
		op.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert fixed operation: %w", err)
	}

	op.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted fixed operation id: %w", err)
	}

	r.log.Info().Int64("id", op.ID).Str("result", op.Result).Msg("Fixed operation created")
	return nil
}

// Update rewrites an owner's fixed-risk operation in place
func (r *Repository) Update(op *FixedOperation) error {
	result, err := r.db.Exec(`
		UPDATE fixed_operations
		SET result = ?, initial_capital = ?, monto_rb = ?, final_capital = ?,
		    risk_percentage = ?, fecha_hora_apertura = ?, fecha_hora_cierre = ?,
		    observaciones = ?, imagen_url = ?
		WHERE id = ? AND owner_id = ?
	`,
		op.Result, op.InitialCapital, op.MontoRb, op.FinalCapital,
		op.RiskPercentage, nullStringPtr(op.OpenedAt), nullStringPtr(op.ClosedAt),
		nullStringPtr(op.Notes), nullStringPtr(op.ImageURL),
		op.ID, op.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update fixed operation: %w", err)
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

// Get returns one fixed-risk operation
func (r *Repository) Get(ownerID string, id int64) (*FixedOperation, error) {
	row := r.db.QueryRow(`
		SELECT id, owner_id, result, initial_capital, monto_rb, final_capital,
		       risk_percentage, fecha_hora_apertura, fecha_hora_cierre,
		       observaciones, imagen_url, created_at
		FROM fixed_operations
		WHERE id = ? AND owner_id = ?
	`, id, ownerID)

	op, err := scanFixedOperation(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixed operation: %w", err)
	}
	return op, nil
}

// Delete removes one fixed-risk operation
func (r *Repository) Delete(ownerID string, id int64) error {
	_, err := r.db.Exec("DELETE FROM fixed_operations WHERE id = ? AND owner_id = ?", id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete fixed operation: %w", err)
	}
	return nil
}

// DeleteAll removes every fixed-risk operation of one owner
func (r *Repository) DeleteAll(ownerID string) error {
	_, err := r.db.Exec("DELETE FROM fixed_operations WHERE owner_id = ?", ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete fixed operations: %w", err)
	}
	return nil
}

// ListByOwner returns an owner's fixed-risk operations, oldest first
func (r *Repository) ListByOwner(ownerID string) ([]FixedOperation, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, result, initial_capital, monto_rb, final_capital,
		       risk_percentage, fecha_hora_apertura, fecha_hora_cierre,
		       observaciones, imagen_url, created_at
		FROM fixed_operations
		WHERE owner_id = ?
		ORDER BY id ASC
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed operations: %w", err)
	}
	defer rows.Close()

	var ops []FixedOperation
	for rows.Next() {
		op, err := scanFixedOperation(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixed operation: %w", err)
		}
		ops = append(ops, *op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fixed operations: %w", err)
	}
	return ops, nil
}

// ListRawByOwner returns an owner's rows with their raw column names for
// the ledger normalizer.
func (r *Repository) ListRawByOwner(ctx context.Context, ownerID string) ([]ledger.RawRow, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM fixed_operations WHERE owner_id = ? ORDER BY id ASC", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw fixed operations: %w", err)
	}
	defer rows.Close()

	return ledger.RawRowsFromSQL(rows)
}

// Summarize returns the win/loss breakdown of this collection alone
func (r *Repository) Summarize(ownerID string) (Summary, error) {
	var s Summary
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(CASE WHEN result = ? THEN 1 END),
			COUNT(CASE WHEN result = ? THEN 1 END)
		FROM fixed_operations
		WHERE owner_id = ?
	`, ResultWon, ResultLost, ownerID).Scan(&s.TotalOperations, &s.Wins, &s.Losses)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to summarize fixed operations: %w", err)
	}

	if s.TotalOperations > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalOperations) * 100
	}
	return s, nil
}

func scanFixedOperation(scan func(...any) error) (*FixedOperation, error) {
	var op FixedOperation
	var initial, monto, final, risk sql.NullFloat64
	var openedAt, closedAt, notes, imageURL, createdAt sql.NullString

	err := scan(
		&op.ID, &op.OwnerID, &op.Result, &initial, &monto, &final, &risk,
		&openedAt, &closedAt, &notes, &imageURL, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	op.InitialCapital = initial.Float64
	op.MontoRb = monto.Float64
	op.FinalCapital = final.Float64
	op.RiskPercentage = risk.Float64
	op.OpenedAt = nullStringValue(openedAt)
	op.ClosedAt = nullStringValue(closedAt)
	op.Notes = nullStringValue(notes)
	op.ImageURL = nullStringValue(imageURL)
	if createdAt.Valid {
		if t, ok := ledger.ParseTime(createdAt.String); ok {
			op.CreatedAt = t
		}
	}

	return &op, nil
}

// Helper functions

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullStringValue(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
