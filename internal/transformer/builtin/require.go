package builtin

import (
	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// Require removes any record missing a value for one of the specified fields.
// Nil and the empty string both count as missing.
type Require struct {
	Fields []string
}

// Apply returns the surviving rows and how many were dropped.
func (r Require) Apply(in records.Table) (records.Table, int, error) {
	out, removed := in.Filter(func(rec records.Record) bool {
		for _, f := range r.Fields {
			if rec.IsMissing(f) {
				return false
			}
		}
		return true
	})
	return out, removed, nil
}

// NonNegative drops rows whose Column value is below zero. Missing values
// are kept; non-numeric values are a *TypeError.
type NonNegative struct {
	Column string
}

func (n NonNegative) Apply(in records.Table) (records.Table, int, error) {
	var bad error
	idx := -1
	out, removed := in.Filter(func(rec records.Record) bool {
		idx++
		v := rec[n.Column]
		if v == nil || bad != nil {
			return true
		}
		f, ok := toFloat(v)
		if !ok {
			bad = &TypeError{Column: n.Column, Row: idx, Value: v, Kind: schema.KindFloat, Err: errNotNumeric}
			return true
		}
		return f >= 0
	})
	if bad != nil {
		return records.Table{}, 0, bad
	}
	return out, removed, nil
}

// Exists drops rows whose Column value is not among Allowed. Keys are
// compared by their formatted value, see KeyOf.
type Exists struct {
	Column  string
	Allowed map[string]struct{}
}

func (e Exists) Apply(in records.Table) (records.Table, int, error) {
	out, removed := in.Filter(func(rec records.Record) bool {
		_, ok := e.Allowed[KeyOf(rec[e.Column])]
		return ok
	})
	return out, removed, nil
}

// KeySet collects the distinct non-missing values of col.
func KeySet(t records.Table, col string) map[string]struct{} {
	set := make(map[string]struct{}, t.Len())
	for _, r := range t.Rows {
		if r.IsMissing(col) {
			continue
		}
		set[KeyOf(r[col])] = struct{}{}
	}
	return set
}
