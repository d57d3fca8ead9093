package builtin

import (
	"sort"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/stats"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// DefaultIQRMultiplier is the Tukey fence multiplier.
const DefaultIQRMultiplier = 1.5

// Bounds are the quartiles and fences computed by IQR.
type Bounds struct {
	Q1, Q3       float64
	Lower, Upper float64
	// Values is the number of non-missing values the quartiles came from.
	Values int
}

// IQR keeps rows whose Column value lies within
// [Q1 - K*IQR, Q3 + K*IQR], quartiles computed by linear interpolation.
// Rows with a missing value are dropped since they cannot be compared.
type IQR struct {
	Column string
	K      float64 // zero means DefaultIQRMultiplier
}

// Apply returns the filtered rows, the bounds that were used and the number
// of rows removed. A table with no values in Column is returned unchanged.
func (q IQR) Apply(in records.Table) (records.Table, Bounds, int, error) {
	k := q.K
	if k == 0 {
		k = DefaultIQRMultiplier
	}

	vals := make([]float64, 0, in.Len())
	for i, r := range in.Rows {
		v := r[q.Column]
		if v == nil {
			continue
		}
		f, ok := toFloat(v)
		if !ok {
			return records.Table{}, Bounds{}, 0, &TypeError{Column: q.Column, Row: i, Value: v, Kind: schema.KindFloat, Err: errNotNumeric}
		}
		vals = append(vals, f)
	}
	if len(vals) == 0 {
		out, _ := in.Filter(func(records.Record) bool { return true })
		return out, Bounds{}, 0, nil
	}
	sort.Float64s(vals)

	b := Bounds{
		Q1:     stats.Quantile(vals, 0.25),
		Q3:     stats.Quantile(vals, 0.75),
		Values: len(vals),
	}
	iqr := b.Q3 - b.Q1
	b.Lower = b.Q1 - k*iqr
	b.Upper = b.Q3 + k*iqr

	out, removed := in.Filter(func(r records.Record) bool {
		f, ok := toFloat(r[q.Column])
		return ok && f >= b.Lower && f <= b.Upper
	})
	return out, b, removed, nil
}
