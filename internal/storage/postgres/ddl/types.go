// Package ddl contains the Postgres DDL dialect.
package ddl

import (
	"fmt"
	"strconv"
	"strings"

	gddl "github.com/madhukaudana/Data-Engineer-Practical/internal/ddl"
)

// MapType normalizes a logical type into a Postgres SQL type.
//
//	bigint     -> BIGINT
//	integer    -> INTEGER
//	float      -> DOUBLE PRECISION
//	date       -> DATE
//	text       -> TEXT
//	varchar(n) -> VARCHAR(n)
func MapType(logical string) (string, error) {
	base, n, err := gddl.ParseLogical(logical)
	if err != nil {
		return "", err
	}
	switch base {
	case "bigint":
		return "BIGINT", nil
	case "integer":
		return "INTEGER", nil
	case "float":
		return "DOUBLE PRECISION", nil
	case "date":
		return "DATE", nil
	case "varchar":
		return fmt.Sprintf("VARCHAR(%d)", n), nil
	default:
		return "TEXT", nil
	}
}

// QuoteIdent double-quotes a Postgres identifier.
func QuoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// Dialect renders Postgres statements.
var Dialect = gddl.Dialect{
	Name:        "postgres",
	QuoteIdent:  QuoteIdent,
	MapType:     MapType,
	Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}
