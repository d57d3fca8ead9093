// Package records defines the row and table primitives passed between the
// loader, cleaning transforms, the aggregator and the storage layer.
//
// A Record maps column name to value. A nil value is the explicit "missing"
// marker; stages never replace it with a zero value on their own.
package records

// Record is a single row keyed by column name.
type Record map[string]any

// Clone returns a shallow copy of r. Values are not deep-copied; every value
// produced by the pipeline is immutable (strings, numbers, time.Time).
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsMissing reports whether the value for col is absent, nil, or an empty
// string.
func (r Record) IsMissing(col string) bool {
	v, ok := r[col]
	if !ok || v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}

// Table is an ordered set of columns plus the rows that carry them.
type Table struct {
	Columns []string
	Rows    []Record
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Has reports whether col is one of the table's columns.
func (t Table) Has(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Clone returns a copy of t whose rows can be modified without affecting t.
func (t Table) Clone() Table {
	rows := make([]Record, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return Table{Columns: append([]string(nil), t.Columns...), Rows: rows}
}

// Filter returns a new table with the same columns and only the rows for
// which keep returns true. Rows are shared with t, not copied.
func (t Table) Filter(keep func(Record) bool) (Table, int) {
	out := make([]Record, 0, len(t.Rows))
	for _, r := range t.Rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return Table{Columns: append([]string(nil), t.Columns...), Rows: out}, len(t.Rows) - len(out)
}

// Project returns the rows as positional slices aligned with columns. Missing
// columns yield nil values.
func (t Table) Project(columns []string) [][]any {
	out := make([][]any, len(t.Rows))
	for i, r := range t.Rows {
		row := make([]any, len(columns))
		for j, c := range columns {
			row[j] = r[c]
		}
		out[i] = row
	}
	return out
}

// FromRows builds a Table from positional rows aligned with columns.
func FromRows(columns []string, rows [][]any) Table {
	out := make([]Record, len(rows))
	for i, row := range rows {
		rec := make(Record, len(columns))
		for j, c := range columns {
			if j < len(row) {
				rec[c] = row[j]
			} else {
				rec[c] = nil
			}
		}
		out[i] = rec
	}
	return Table{Columns: append([]string(nil), columns...), Rows: out}
}
