package records

import (
	"reflect"
	"testing"
)

func TestRecord_IsMissing(t *testing.T) {
	t.Parallel()

	r := Record{"a": nil, "b": "", "c": "x", "d": 0}
	tests := []struct {
		col  string
		want bool
	}{
		{"a", true},
		{"b", true},
		{"c", false},
		{"d", false},
		{"absent", true},
	}
	for _, tt := range tests {
		if got := r.IsMissing(tt.col); got != tt.want {
			t.Fatalf("IsMissing(%q) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestTable_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := Table{Columns: []string{"id"}, Rows: []Record{{"id": 1}}}
	cp := orig.Clone()
	cp.Rows[0]["id"] = 2
	cp.Columns[0] = "changed"

	if orig.Rows[0]["id"] != 1 {
		t.Fatalf("original row mutated: %#v", orig.Rows[0])
	}
	if orig.Columns[0] != "id" {
		t.Fatalf("original columns mutated: %#v", orig.Columns)
	}
}

func TestTable_FilterCountsRemoved(t *testing.T) {
	t.Parallel()

	tbl := FromRows([]string{"v"}, [][]any{{1}, {-1}, {2}})
	out, removed := tbl.Filter(func(r Record) bool { return r["v"].(int) >= 0 })
	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if out.Len() != 2 || tbl.Len() != 3 {
		t.Fatalf("len(out)=%d len(in)=%d, want 2 and 3", out.Len(), tbl.Len())
	}
}

func TestTable_ProjectAndFromRows(t *testing.T) {
	t.Parallel()

	cols := []string{"a", "b"}
	rows := [][]any{{1, "x"}, {2, nil}}
	tbl := FromRows(cols, rows)
	if got := tbl.Project(cols); !reflect.DeepEqual(got, rows) {
		t.Fatalf("Project = %#v, want %#v", got, rows)
	}
	if got := tbl.Project([]string{"b", "zz"}); !reflect.DeepEqual(got, [][]any{{"x", nil}, {nil, nil}}) {
		t.Fatalf("Project subset = %#v", got)
	}
}
