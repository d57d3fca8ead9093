package builtin

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

func TestParseFuncs(t *testing.T) {
	t.Parallel()
	date := time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		parse   ParseFunc
		in      any
		want    any
		wantErr bool
	}{
		{"int from string", ParseInt, " 42 ", int64(42), false},
		{"int from integral float string", ParseInt, "5.0", int64(5), false},
		{"int from bytes", ParseInt, []byte("7"), int64(7), false},
		{"int from float64", ParseInt, float64(3), int64(3), false},
		{"int fractional", ParseInt, "5.5", nil, true},
		{"int garbage", ParseInt, "abc", nil, true},
		{"int max", ParseInt, "9223372036854775807", int64(math.MaxInt64), false},
		{"int 2^63 float string", ParseInt, "9223372036854775808.0", nil, true},
		{"int 2^63 exponent", ParseInt, "9.223372036854775807e18", nil, true},
		{"int 2^63 float64", ParseInt, math.Pow(2, 63), nil, true},
		{"int -2^63 float string", ParseInt, "-9223372036854775808.0", int64(math.MinInt64), false},
		{"float from string", ParseFloat, "12.50", 12.5, false},
		{"float from int64", ParseFloat, int64(2), 2.0, false},
		{"float garbage", ParseFloat, "twelve", nil, true},
		{"float inf string", ParseFloat, "Inf", nil, true},
		{"float negative infinity string", ParseFloat, "-infinity", nil, true},
		{"float inf value", ParseFloat, math.Inf(1), nil, true},
		{"float nan value", ParseFloat, math.NaN(), nil, true},
		{"text passthrough", ParseText, "Ann", "Ann", false},
		{"text from int", ParseText, int64(9), "9", false},
		{"date only", ParseDate(nil), "2024-03-09", date, false},
		{"date time truncated", ParseDate(nil), "2024-03-09 17:45:00", date, false},
		{"date rfc3339", ParseDate(nil), "2024-03-09T23:10:00Z", date, false},
		{"date custom layout", ParseDate([]string{"02.01.2006"}), "09.03.2024", date, false},
		{"date from time", ParseDate(nil), time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC), date, false},
		{"date garbage", ParseDate(nil), "yesterday", nil, true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := tc.parse(tc.in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("parse(%v) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if gt, ok := got.(time.Time); ok {
				if !gt.Equal(tc.want.(time.Time)) {
					t.Fatalf("parse(%v) = %v, want %v", tc.in, got, tc.want)
				}
				return
			}
			if got != tc.want {
				t.Fatalf("parse(%v) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

/*
TestCoerceApply_KeepsMissingAndDoesNotMutate verifies that nil cells survive
coercion as nil, are counted, and that the caller's table is untouched.
*/
func TestCoerceApply_KeepsMissingAndDoesNotMutate(t *testing.T) {
	t.Parallel()
	in := records.Table{
		Columns: []string{"order_id", "total_amount"},
		Rows: []records.Record{
			{"order_id": "1", "total_amount": "10.5"},
			{"order_id": "2", "total_amount": nil},
		},
	}
	c := Coerce{
		Types:    map[string]schema.Kind{"order_id": schema.KindInt, "total_amount": schema.KindFloat, "order_date": schema.KindDate},
		Registry: DefaultRegistry(nil),
	}
	out, rep, err := c.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.Rows[0]["order_id"] != int64(1) || out.Rows[0]["total_amount"] != 10.5 {
		t.Fatalf("row 0 = %#v, want typed values", out.Rows[0])
	}
	if out.Rows[1]["total_amount"] != nil {
		t.Fatalf("row 1 total_amount = %#v, want nil", out.Rows[1]["total_amount"])
	}
	if rep.Missing["total_amount"] != 1 {
		t.Fatalf("Missing[total_amount] = %d, want 1", rep.Missing["total_amount"])
	}
	if len(rep.Absent) != 1 || rep.Absent[0] != "order_date" {
		t.Fatalf("Absent = %v, want [order_date]", rep.Absent)
	}
	if in.Rows[0]["order_id"] != "1" {
		t.Fatalf("input mutated: %#v", in.Rows[0])
	}
}

func TestCoerceApply_TypeError(t *testing.T) {
	t.Parallel()
	in := records.Table{
		Columns: []string{"order_id"},
		Rows:    []records.Record{{"order_id": "1"}, {"order_id": "x1"}},
	}
	c := Coerce{Types: map[string]schema.Kind{"order_id": schema.KindInt}, Registry: DefaultRegistry(nil)}
	_, _, err := c.Apply(in)

	var te *TypeError
	if !errors.As(err, &te) {
		t.Fatalf("Apply error = %v, want *TypeError", err)
	}
	if te.Column != "order_id" || te.Row != 1 || te.Kind != schema.KindInt {
		t.Fatalf("TypeError = %+v, want order_id row 1 int", te)
	}
}
