package ledger

import (
	"database/sql"
	"fmt"
)

// RawRowsFromSQL converts sql rows into loosely typed maps keyed by the
// column names the driver reports. Both repositories use this for their
// ledger-facing raw listings, so a renamed or added column reaches the
// normalizer without any repository change.
func RawRowsFromSQL(rows *sql.Rows) ([]RawRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []RawRow
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan raw row: %w", err)
		}

		row := make(RawRow, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating raw rows: %w", err)
	}
	return out, nil
}
