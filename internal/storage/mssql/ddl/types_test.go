package ddl

import "testing"

func TestMapType(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"bigint", "BIGINT"},
		{"integer", "INT"},
		{"float", "FLOAT"},
		{"date", "DATE"},
		{"varchar(255)", "NVARCHAR(255)"},
		{"varchar(9000)", "NVARCHAR(MAX)"},
		{"text", "NVARCHAR(MAX)"},
	}
	for _, tc := range tests {
		got, err := MapType(tc.in)
		if err != nil || got != tc.want {
			t.Fatalf("MapType(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestDialectQuoting(t *testing.T) {
	t.Parallel()
	if got := Dialect.DropTableSQL("dbo.orders"); got != "DROP TABLE IF EXISTS [dbo].[orders]" {
		t.Fatalf("DropTableSQL = %q", got)
	}
	if got := Dialect.SelectSQL("orders", []string{"a]b"}); got != "SELECT [a]]b] FROM [orders]" {
		t.Fatalf("SelectSQL = %q", got)
	}
}
