// Package transformer validates and cleans loaded tables. A Cleaner coerces
// declared column kinds through a parser registry and then runs an ordered
// chain of row filters, counting the rows each filter removes.
package transformer

import (
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// Filter drops rows from a table and reports how many it dropped. Filters
// never modify the rows they keep.
type Filter interface {
	Apply(records.Table) (records.Table, int, error)
}

// Step is a Filter labelled with the removal reason it reports under.
type Step struct {
	Reason string
	Filter Filter
}

// Chain is an ordered list of steps.
type Chain []Step

// Apply runs each step in order and returns the result with removed counts
// keyed by reason. It stops at the first failing step.
func (c Chain) Apply(in records.Table) (records.Table, map[string]int, error) {
	removed := make(map[string]int, len(c))
	out := in
	for _, s := range c {
		next, n, err := s.Filter.Apply(out)
		if err != nil {
			return records.Table{}, removed, err
		}
		removed[s.Reason] += n
		out = next
	}
	return out, removed, nil
}
