// Package ddl contains the SQL Server DDL dialect.
package ddl

import (
	"fmt"
	"strconv"
	"strings"

	gddl "github.com/madhukaudana/Data-Engineer-Practical/internal/ddl"
)

// MapType maps a logical type into a SQL Server column type. Strings are
// Unicode (NVARCHAR).
func MapType(logical string) (string, error) {
	base, n, err := gddl.ParseLogical(logical)
	if err != nil {
		return "", err
	}
	switch base {
	case "bigint":
		return "BIGINT", nil
	case "integer":
		return "INT", nil
	case "float":
		return "FLOAT", nil
	case "date":
		return "DATE", nil
	case "varchar":
		if n > 4000 {
			return "NVARCHAR(MAX)", nil
		}
		return fmt.Sprintf("NVARCHAR(%d)", n), nil
	default:
		return "NVARCHAR(MAX)", nil
	}
}

// QuoteIdent brackets a SQL Server identifier.
func QuoteIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }

// Dialect renders SQL Server statements. DROP TABLE IF EXISTS needs SQL
// Server 2016 or later.
var Dialect = gddl.Dialect{
	Name:        "mssql",
	QuoteIdent:  QuoteIdent,
	MapType:     MapType,
	Placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
}
