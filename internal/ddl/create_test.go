package ddl

import (
	"fmt"
	"strings"
	"testing"
)

func testDialect() Dialect {
	return Dialect{
		Name:       "test",
		QuoteIdent: func(s string) string { return `"` + s + `"` },
		MapType: func(l string) (string, error) {
			base, n, err := ParseLogical(l)
			if err != nil {
				return "", err
			}
			if n > 0 {
				return fmt.Sprintf("VARCHAR(%d)", n), nil
			}
			return strings.ToUpper(base), nil
		},
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
}

// TestCreateTableSQL verifies rendering and the error cases of
// Dialect.CreateTableSQL.
func TestCreateTableSQL(t *testing.T) {
	t.Parallel()
	d := testDialect()

	tests := []struct {
		name        string
		def         TableDef
		wantSQL     string
		errContains string
	}{
		{
			name:        "empty FQN returns error",
			def:         TableDef{Columns: []ColumnDef{{Name: "id", SQLType: "bigint"}}},
			errContains: "table FQN must not be empty",
		},
		{
			name:        "no columns returns error",
			def:         TableDef{FQN: "t"},
			errContains: "at least one column is required",
		},
		{
			name:        "unknown logical type returns error",
			def:         TableDef{FQN: "t", Columns: []ColumnDef{{Name: "id", SQLType: "blob"}}},
			errContains: "column id",
		},
		{
			name: "quoted schema and nullability",
			def: TableDef{FQN: "public.customers", Columns: []ColumnDef{
				{Name: "customer_id", SQLType: "bigint"},
				{Name: "customer_name", SQLType: "varchar(255)", Nullable: true},
			}},
			wantSQL: "CREATE TABLE \"public\".\"customers\" (\n  \"customer_id\" BIGINT NOT NULL,\n  \"customer_name\" VARCHAR(255)\n)",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := d.CreateTableSQL(tc.def)
			if tc.errContains != "" {
				if err == nil || !strings.Contains(err.Error(), tc.errContains) {
					t.Fatalf("CreateTableSQL() error = %v, want containing %q", err, tc.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateTableSQL() unexpected error: %v", err)
			}
			if got != tc.wantSQL {
				t.Fatalf("CreateTableSQL()\n got: %q\nwant: %q", got, tc.wantSQL)
			}
		})
	}
}

func TestInsertSelectDrop(t *testing.T) {
	t.Parallel()
	d := testDialect()

	if got, want := d.InsertSQL("orders", []string{"a", "b"}, 2), `INSERT INTO "orders" ("a", "b") VALUES ($1, $2), ($3, $4)`; got != want {
		t.Fatalf("InsertSQL = %q, want %q", got, want)
	}
	if got, want := d.SelectSQL("orders", []string{"a"}), `SELECT "a" FROM "orders"`; got != want {
		t.Fatalf("SelectSQL = %q, want %q", got, want)
	}
	if got, want := d.DropTableSQL("x.orders"), `DROP TABLE IF EXISTS "x"."orders"`; got != want {
		t.Fatalf("DropTableSQL = %q, want %q", got, want)
	}
}

func TestParseLogical(t *testing.T) {
	t.Parallel()
	if b, n, err := ParseLogical("VARCHAR(64)"); err != nil || b != "varchar" || n != 64 {
		t.Fatalf("ParseLogical(VARCHAR(64)) = %q, %d, %v", b, n, err)
	}
	if _, _, err := ParseLogical("varchar(0)"); err == nil {
		t.Fatalf("ParseLogical(varchar(0)) error = nil")
	}
	if b, _, err := ParseLogical(" Date "); err != nil || b != "date" {
		t.Fatalf("ParseLogical(Date) = %q, %v", b, err)
	}
}
