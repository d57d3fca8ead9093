package storage

import (
	"database/sql"
	"fmt"
)

// ScanRows drains rows into positional slices of ncols values. Driver byte
// slices are copied into strings since database/sql reuses their buffers.
func ScanRows(rows *sql.Rows, ncols int) ([][]any, error) {
	defer rows.Close()

	var out [][]any
	for rows.Next() {
		vals := make([]any, ncols)
		ptrs := make([]any, ncols)
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(out), err)
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
