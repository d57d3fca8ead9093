// Package ddl contains the MySQL DDL dialect.
package ddl

import (
	"fmt"
	"strings"

	gddl "github.com/madhukaudana/Data-Engineer-Practical/internal/ddl"
)

// MapType maps a logical type into a MySQL column type.
//
//	bigint     -> BIGINT
//	integer    -> INT
//	float      -> DOUBLE (MySQL FLOAT is single precision)
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
		return "INT", nil
	case "float":
		return "DOUBLE", nil
	case "date":
		return "DATE", nil
	case "varchar":
		return fmt.Sprintf("VARCHAR(%d)", n), nil
	default:
		return "TEXT", nil
	}
}

func quoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// Dialect renders MySQL statements.
var Dialect = gddl.Dialect{
	Name:        "mysql",
	QuoteIdent:  quoteIdent,
	MapType:     MapType,
	Placeholder: gddl.QuestionMark,
}
