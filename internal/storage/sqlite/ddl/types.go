// Package ddl contains the SQLite DDL dialect.
//
// SQLite types are affinities, so the mapping prefers canonical ones:
// integers -> INTEGER, floats -> REAL, dates and strings -> TEXT (dates are
// stored as ISO-8601 "YYYY-MM-DD").
package ddl

import (
	"strings"

	gddl "github.com/madhukaudana/Data-Engineer-Practical/internal/ddl"
)

// MapType maps a logical type into a SQLite column type.
func MapType(logical string) (string, error) {
	base, _, err := gddl.ParseLogical(logical)
	if err != nil {
		return "", err
	}
	switch base {
	case "bigint", "integer":
		return "INTEGER", nil
	case "float":
		return "REAL", nil
	default:
		return "TEXT", nil
	}
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// Dialect renders SQLite statements.
var Dialect = gddl.Dialect{
	Name:        "sqlite",
	QuoteIdent:  quoteIdent,
	MapType:     MapType,
	Placeholder: gddl.QuestionMark,
}
