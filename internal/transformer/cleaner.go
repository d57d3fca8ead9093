package transformer

import (
	"fmt"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/logger"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/transformer/builtin"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// Removal reasons reported in Result.Removed.
const (
	ReasonNegativeAmount   = "negative_amount"
	ReasonMissingReference = "missing_reference"
	ReasonDuplicate        = "duplicate"
	ReasonOrphanReference  = "orphan_reference"
)

// Rules configure one Clean call. Every named column is optional; a rule
// whose column is empty or absent from the table is skipped.
type Rules struct {
	// Name labels log lines, typically the table name.
	Name string

	Types map[string]schema.Kind

	// AmountColumn rows with a negative value are dropped.
	AmountColumn string
	// ReferenceColumn rows with a nil or empty key are dropped.
	ReferenceColumn string
	// UniqueColumn keeps one row for each value, chosen by DuplicatePolicy.
	UniqueColumn string
	// DuplicatePolicy is a builtin.DeDup policy; empty means keep-first.
	DuplicatePolicy string

	// KnownReferences, when non-nil, drops rows whose ReferenceColumn value
	// is not in the set. Build it with builtin.KeySet.
	KnownReferences map[string]struct{}
}

// Result is the cleaned table plus per-reason counts of removed rows and
// per-column counts of missing cells left in place.
type Result struct {
	Table   records.Table
	Removed map[string]int
	Missing map[string]int
}

// Total returns the number of rows removed for every reason.
func (r Result) Total() int {
	n := 0
	for _, v := range r.Removed {
		n += v
	}
	return n
}

// Cleaner validates and cleans tables. The zero value is not usable; build
// one with NewCleaner.
type Cleaner struct {
	registry builtin.Registry
	log      *logger.Logger
}

// NewCleaner returns a Cleaner using registry for coercion. A nil log
// discards output.
func NewCleaner(registry builtin.Registry, log *logger.Logger) *Cleaner {
	if log == nil {
		log = logger.Nop()
	}
	return &Cleaner{registry: registry, log: log}
}

// Clean coerces the typed columns of in and runs the post-pass filters in
// the order negative amount, missing reference, duplicate, orphan reference.
// A coercion failure is returned as *builtin.TypeError. in is not modified.
func (c *Cleaner) Clean(in records.Table, rules Rules) (Result, error) {
	log := c.log.With("table", rules.Name)

	coerced, rep, err := builtin.Coerce{Types: rules.Types, Registry: c.registry}.Apply(in)
	if err != nil {
		log.Error("type coercion failed", "error", err)
		return Result{}, fmt.Errorf("clean %s: %w", rules.Name, err)
	}
	for _, col := range rep.Absent {
		log.Warn("typed column not present, skipping", "column", col)
	}
	for _, col := range coerced.Columns {
		if n := rep.Missing[col]; n > 0 {
			log.Warn("missing values kept", "column", col, "count", n)
		}
	}

	chain := c.chain(coerced, rules)
	out, removed, err := chain.Apply(coerced)
	if err != nil {
		log.Error("cleaning failed", "error", err)
		return Result{}, fmt.Errorf("clean %s: %w", rules.Name, err)
	}
	for _, s := range chain {
		log.Info("rows removed", "reason", s.Reason, "count", removed[s.Reason])
	}
	log.Info("table cleaned", "rows_in", in.Len(), "rows_out", out.Len())

	return Result{Table: out, Removed: removed, Missing: rep.Missing}, nil
}

func (c *Cleaner) chain(t records.Table, rules Rules) Chain {
	present := func(col string) bool { return col != "" && t.Has(col) }

	var chain Chain
	if present(rules.AmountColumn) {
		chain = append(chain, Step{ReasonNegativeAmount, builtin.NonNegative{Column: rules.AmountColumn}})
	}
	if present(rules.ReferenceColumn) {
		chain = append(chain, Step{ReasonMissingReference, builtin.Require{Fields: []string{rules.ReferenceColumn}}})
	}
	if present(rules.UniqueColumn) {
		chain = append(chain, Step{ReasonDuplicate, builtin.DeDup{Keys: []string{rules.UniqueColumn}, Policy: rules.DuplicatePolicy}})
	}
	if present(rules.ReferenceColumn) && rules.KnownReferences != nil {
		chain = append(chain, Step{ReasonOrphanReference, builtin.Exists{Column: rules.ReferenceColumn, Allowed: rules.KnownReferences}})
	}
	return chain
}

// CustomerRules are the default rules for the customers table.
func CustomerRules(def schema.Table) Rules {
	return Rules{
		Name:            def.Name,
		Types:           def.Kinds(),
		ReferenceColumn: schema.ColCustomerID,
		UniqueColumn:    schema.ColCustomerID,
	}
}

// OrderRules are the default rules for the orders table.
func OrderRules(def schema.Table) Rules {
	return Rules{
		Name:            def.Name,
		Types:           def.Kinds(),
		AmountColumn:    schema.ColTotalAmount,
		ReferenceColumn: schema.ColCustomerID,
		UniqueColumn:    schema.ColOrderID,
	}
}
