package ddl

// ColumnDef describes a single column in a table definition. SQLType holds
// a logical type (bigint, integer, float, date, text, varchar(n)) until a
// Dialect renders it.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name (optionally dotted, "schema.table") and an
// ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Names returns the column names in order.
func (t TableDef) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}
