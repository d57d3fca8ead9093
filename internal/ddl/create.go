// Package ddl defines a small, backend-agnostic model for SQL DDL and a
// Dialect type that backends fill in to render it: identifier quoting,
// logical-to-native type mapping and bind placeholders.
//
// Rendered statements are deliberately plain so every dialect supports them:
//
//	DROP TABLE IF EXISTS <t>
//	CREATE TABLE <t> (<col> <TYPE> [NOT NULL], ...)
//	INSERT INTO <t> (<cols>) VALUES (<binds>), ...
//	SELECT <cols> FROM <t>
package ddl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Dialect renders TableDef values for one backend.
type Dialect struct {
	// Name labels errors, e.g. "mysql".
	Name string
	// QuoteIdent quotes one identifier segment.
	QuoteIdent func(string) string
	// MapType maps a logical type to a native column type.
	MapType func(logical string) (string, error)
	// Placeholder returns the bind marker for 1-based argument n.
	Placeholder func(n int) string
}

// QuoteFQN quotes every dotted segment of fqn.
func (d Dialect) QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, d.QuoteIdent(p))
	}
	return strings.Join(out, ".")
}

// DropTableSQL renders DROP TABLE IF EXISTS for fqn.
func (d Dialect) DropTableSQL(fqn string) string {
	return "DROP TABLE IF EXISTS " + d.QuoteFQN(fqn)
}

// CreateTableSQL renders a CREATE TABLE statement for t.
func (d Dialect) CreateTableSQL(t TableDef) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("%s ddl: table FQN must not be empty", d.Name)
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("%s ddl: at least one column is required", d.Name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("%s ddl: column with empty name in table %s", d.Name, fqn)
		}
		typ, err := d.MapType(c.SQLType)
		if err != nil {
			return "", fmt.Errorf("%s ddl: column %s: %w", d.Name, name, err)
		}
		var sb strings.Builder
		sb.WriteString(d.QuoteIdent(name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", d.QuoteFQN(fqn), strings.Join(cols, ",\n  ")), nil
}

// InsertSQL renders a multi-row INSERT for rows rows of len(columns) values.
func (d Dialect) InsertSQL(fqn string, columns []string, rows int) string {
	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(d.QuoteFQN(fqn))
	sb.WriteString(" (")
	sb.WriteString(d.quoteList(columns))
	sb.WriteString(") VALUES ")
	n := 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := range columns {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(d.Placeholder(n))
			n++
		}
		sb.WriteByte(')')
	}
	return sb.String()
}

// SelectSQL renders SELECT <columns> FROM <fqn>.
func (d Dialect) SelectSQL(fqn string, columns []string) string {
	return "SELECT " + d.quoteList(columns) + " FROM " + d.QuoteFQN(fqn)
}

func (d Dialect) quoteList(columns []string) string {
	q := make([]string, len(columns))
	for i, c := range columns {
		q[i] = d.QuoteIdent(c)
	}
	return strings.Join(q, ", ")
}

var varcharRe = regexp.MustCompile(`^varchar\((\d+)\)$`)

// ParseLogical splits a logical type into its base name and length. Only
// varchar carries a length.
func ParseLogical(logical string) (base string, length int, err error) {
	s := strings.ToLower(strings.TrimSpace(logical))
	if m := varcharRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return "", 0, fmt.Errorf("bad varchar length in %q", logical)
		}
		return "varchar", n, nil
	}
	switch s {
	case "bigint", "integer", "float", "date", "text":
		return s, 0, nil
	default:
		return "", 0, fmt.Errorf("unknown logical type %q", logical)
	}
}

// QuestionMark is the Placeholder used by MySQL and SQLite.
func QuestionMark(int) string { return "?" }
