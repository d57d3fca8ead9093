package builtin

import (
	"fmt"
	"sort"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// Coerce converts every column named in Types to its semantic kind using the
// parsers in Registry. Missing cells stay nil.
type Coerce struct {
	Types    map[string]schema.Kind
	Registry Registry
}

// CoerceReport describes what Coerce saw besides the converted values.
type CoerceReport struct {
	// Missing counts nil cells per coerced column.
	Missing map[string]int
	// Absent lists typed columns the table does not have, sorted.
	Absent []string
}

// Apply returns a converted copy of in. The first failing cell aborts with a
// *TypeError; columns are visited in table order so the failure is stable.
func (c Coerce) Apply(in records.Table) (records.Table, CoerceReport, error) {
	rep := CoerceReport{Missing: map[string]int{}}
	for col := range c.Types {
		if !in.Has(col) {
			rep.Absent = append(rep.Absent, col)
		}
	}
	sort.Strings(rep.Absent)

	out := in.Clone()
	for _, col := range in.Columns {
		kind, ok := c.Types[col]
		if !ok {
			continue
		}
		parse, ok := c.Registry[kind]
		if !ok {
			return records.Table{}, rep, fmt.Errorf("coerce %q: no parser registered for kind %s", col, kind)
		}
		for i, r := range out.Rows {
			v := r[col]
			if v == nil {
				rep.Missing[col]++
				continue
			}
			pv, err := parse(v)
			if err != nil {
				return records.Table{}, rep, &TypeError{Column: col, Row: i, Value: v, Kind: kind, Err: err}
			}
			r[col] = pv
		}
	}
	return out, rep, nil
}
