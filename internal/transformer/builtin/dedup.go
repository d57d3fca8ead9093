// Package builtin contains the reusable cleaning steps of the pipeline:
// type coercion through a parser registry, required-field and range
// filters, de-duplication and IQR outlier removal.
//
// DeDup collapses duplicate records by a configured key and chooses a winner
// according to a policy:
//
//   - "keep-first"   : keep the earliest occurrence (default)
//   - "keep-last"    : keep the latest occurrence
//   - "most-complete": keep the record that has the most non-empty fields;
//     ties break by "keep-first"
//
// Keys: a record's key is constructed from the concatenation of configured
// fields as strings (nil -> "\x00"), so two missing keys collide. Run DeDup
// after Coerce so that "5" and "5.0" have already become the same int64.
package builtin

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// DeDup implements a configurable, in-memory de-duplication policy.
type DeDup struct {
	// Keys are the field names that form the business key, e.g. ["order_id"].
	Keys []string

	// Policy selects the winner among duplicates.
	Policy string
}

// KeyOf formats a single key value the way DeDup and Exists compare it.
func KeyOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "\x00"
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Apply returns the winning record for each key in original row order, plus
// the number of rows dropped. Rows lacking a key column pass through.
func (d DeDup) Apply(in records.Table) (records.Table, int, error) {
	if in.Len() == 0 || len(d.Keys) == 0 {
		out, _ := in.Filter(func(records.Record) bool { return true })
		return out, 0, nil
	}

	policy := strings.ToLower(strings.TrimSpace(d.Policy))
	if policy == "" {
		policy = "keep-first"
	}
	switch policy {
	case "keep-first", "keep-last", "most-complete":
	default:
		return records.Table{}, 0, fmt.Errorf("dedup: unknown policy %q", d.Policy)
	}

	type slot struct {
		index int
		score int
	}
	winners := make(map[string]slot, in.Len())
	keep := make([]bool, in.Len())

	keyOf := func(r records.Record) (string, bool) {
		var b strings.Builder
		for i, k := range d.Keys {
			v, ok := r[k]
			if !ok {
				return "", false
			}
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(KeyOf(v))
		}
		return b.String(), true
	}

	scoreOf := func(r records.Record) int {
		score := 0
		for k := range r {
			if !r.IsMissing(k) {
				score++
			}
		}
		return score
	}

	for i, r := range in.Rows {
		key, ok := keyOf(r)
		if !ok {
			keep[i] = true
			continue
		}
		prev, exists := winners[key]
		switch policy {
		case "keep-first":
			if !exists {
				winners[key] = slot{index: i}
			}
		case "keep-last":
			winners[key] = slot{index: i}
		case "most-complete":
			s := slot{index: i, score: scoreOf(r)}
			if !exists || s.score > prev.score {
				winners[key] = s
			}
		}
	}

	indexes := make([]int, 0, len(winners))
	for _, s := range winners {
		indexes = append(indexes, s.index)
	}
	sort.Ints(indexes)
	for _, idx := range indexes {
		keep[idx] = true
	}

	pos := -1
	out, removed := in.Filter(func(records.Record) bool {
		pos++
		return keep[pos]
	})
	return out, removed, nil
}

// DropDuplicateRows removes rows identical to an earlier row across every
// column of t, keeping the first.
func DropDuplicateRows(t records.Table) (records.Table, int) {
	seen := make(map[string]struct{}, t.Len())
	return t.Filter(func(r records.Record) bool {
		var b strings.Builder
		for i, c := range t.Columns {
			if i > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(fmt.Sprintf("%T:", r[c]))
			b.WriteString(KeyOf(r[c]))
		}
		k := b.String()
		if _, dup := seen[k]; dup {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}
