package ddl

import (
	"testing"

	gddl "github.com/madhukaudana/Data-Engineer-Practical/internal/ddl"
)

func TestMapType(t *testing.T) {
	t.Parallel()
	tests := map[string]string{
		"bigint":       "BIGINT",
		"integer":      "INT",
		"float":        "DOUBLE",
		"date":         "DATE",
		"text":         "TEXT",
		"varchar(255)": "VARCHAR(255)",
	}
	for in, want := range tests {
		got, err := MapType(in)
		if err != nil || got != want {
			t.Fatalf("MapType(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := MapType("geometry"); err == nil {
		t.Fatalf("MapType(geometry) error = nil")
	}
}

func TestDialect_CreateTable(t *testing.T) {
	t.Parallel()
	got, err := Dialect.CreateTableSQL(gddl.TableDef{FQN: "orders", Columns: []gddl.ColumnDef{
		{Name: "order_id", SQLType: "bigint", Nullable: true},
		{Name: "order_date", SQLType: "date", Nullable: true},
	}})
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	want := "CREATE TABLE `orders` (\n  `order_id` BIGINT,\n  `order_date` DATE\n)"
	if got != want {
		t.Fatalf("CreateTableSQL()\n got: %q\nwant: %q", got, want)
	}
	if got := Dialect.DropTableSQL("orders"); got != "DROP TABLE IF EXISTS `orders`" {
		t.Fatalf("DropTableSQL = %q", got)
	}
}
