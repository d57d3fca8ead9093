package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/aggregate"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/config"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/logger"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/metrics"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/parser/csv"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/storage"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/transformer"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/transformer/builtin"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// Stages accepted by -stage.
const (
	StageImport    = "import"
	StageAggregate = "aggregate"
	StageAll       = "all"
)

// errWritesFailed is returned after a run that continued past storage errors.
var errWritesFailed = errors.New("one or more table writes failed")

// dataset is a cleaned customers/orders pair handed from import to aggregate.
type dataset struct {
	customers records.Table
	orders    records.Table
}

// runner executes the stages of one run. It is not safe for concurrent use.
type runner struct {
	cfg      config.Config
	log      *logger.Logger
	registry builtin.Registry
	cleaner  *transformer.Cleaner
	store    *storage.Persister

	// readRegistry also accepts ISO dates, the form text-typed backends
	// store them in.
	readRegistry builtin.Registry

	customersDef schema.Table
	ordersDef    schema.Table
	aggregateDef schema.Table

	results []storage.Result
}

func newRunner(cfg config.Config, log *logger.Logger) (*runner, error) {
	dsn, err := cfg.DB.DSNFor()
	if err != nil {
		return nil, fmt.Errorf("build dsn: %w", err)
	}
	reg := builtin.DefaultRegistry(cfg.Clean.DateLayouts)
	readLayouts := cfg.Clean.DateLayouts
	if len(readLayouts) > 0 {
		readLayouts = append(slices.Clone(readLayouts), time.DateOnly)
	}
	return &runner{
		cfg:          cfg,
		log:          log,
		registry:     reg,
		readRegistry: builtin.DefaultRegistry(readLayouts),
		cleaner:      transformer.NewCleaner(reg, log),
		store:        storage.NewPersister(storage.Config{Kind: cfg.DB.Kind, DSN: dsn}, log),
		customersDef: schema.Customers(cfg.Tables.Customers),
		ordersDef:    schema.Orders(cfg.Tables.Orders),
		aggregateDef: schema.CustomerData(cfg.Tables.Aggregate),
	}, nil
}

// run executes stage. Load, type and aggregate validation failures stop the
// run immediately. Storage failures stop it only under the abort policy;
// otherwise the run goes on and returns errWritesFailed at the end.
func (r *runner) run(ctx context.Context, stage string) error {
	var err error
	switch stage {
	case StageImport:
		_, err = r.importStage(ctx)
	case StageAggregate:
		var ds dataset
		if ds, err = r.readBack(ctx); err == nil {
			err = r.aggregateStage(ctx, ds)
		}
	case StageAll:
		var ds dataset
		if ds, err = r.importStage(ctx); err == nil {
			err = r.aggregateStage(ctx, ds)
		}
	default:
		return fmt.Errorf("unknown stage %q (want %s, %s or %s)", stage, StageImport, StageAggregate, StageAll)
	}
	r.summary()
	if err != nil {
		return err
	}
	for _, res := range r.results {
		if !res.OK() {
			return errWritesFailed
		}
	}
	return nil
}

// step times fn and records it under name.
func (r *runner) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	d := time.Since(start)
	metrics.RecordStep(r.cfg.Job, name, err, d)
	if err != nil {
		r.log.Error("step failed", "step", name, "elapsed", d.Truncate(time.Millisecond), "error", err)
	} else {
		r.log.Debug("step done", "step", name, "elapsed", d.Truncate(time.Millisecond))
	}
	return err
}

func (r *runner) importStage(ctx context.Context) (dataset, error) {
	var ds dataset

	customerRules := transformer.CustomerRules(r.customersDef)
	customerRules.DuplicatePolicy = r.cfg.Clean.DuplicatePolicy
	customers, err := r.loadAndClean(ctx, r.cfg.Inputs.Customers, customerRules)
	if err != nil {
		return ds, err
	}
	orderRules := transformer.OrderRules(r.ordersDef)
	orderRules.DuplicatePolicy = r.cfg.Clean.DuplicatePolicy
	if r.cfg.Clean.DropOrphanOrders {
		orderRules.KnownReferences = builtin.KeySet(customers, schema.ColCustomerID)
	}
	orders, err := r.loadAndClean(ctx, r.cfg.Inputs.Orders, orderRules)
	if err != nil {
		return ds, err
	}

	if err := r.persist(ctx, r.customersDef, customers); err != nil {
		return ds, err
	}
	if err := r.persist(ctx, r.ordersDef, orders); err != nil {
		return ds, err
	}
	return dataset{customers: customers, orders: orders}, nil
}

func (r *runner) loadAndClean(ctx context.Context, in config.Input, rules transformer.Rules) (records.Table, error) {
	var raw records.Table
	err := r.step("load_"+rules.Name, func() error {
		var err error
		raw, err = csv.LoadFile(ctx, in.Path, csvSpec(in), r.log)
		return err
	})
	if err != nil {
		return records.Table{}, err
	}
	metrics.RecordRows(r.cfg.Job, rules.Name, "loaded", raw.Len())

	var res transformer.Result
	err = r.step("clean_"+rules.Name, func() error {
		var err error
		res, err = r.cleaner.Clean(raw, rules)
		return err
	})
	if err != nil {
		return records.Table{}, err
	}
	for reason, n := range res.Removed {
		metrics.RecordRows(r.cfg.Job, rules.Name, reason, n)
	}
	return res.Table, nil
}

func csvSpec(in config.Input) csv.Spec {
	return csv.Spec{
		Columns:  in.Columns,
		Rename:   in.Rename,
		Comma:    in.CommaRune(),
		Encoding: in.Encoding,
	}
}

// persist writes t and records the result. The returned error is non-nil
// only when the abort policy applies.
func (r *runner) persist(ctx context.Context, def schema.Table, t records.Table) error {
	var res storage.Result
	_ = r.step("persist_"+def.Name, func() error {
		res = r.store.Persist(ctx, def, t, r.cfg.Runtime.BatchSize)
		return res.Err
	})
	r.results = append(r.results, res)
	metrics.RecordRows(r.cfg.Job, def.Name, "written", int(res.Rows))
	metrics.RecordBatches(r.cfg.Job, def.Name, res.Batches)

	if !res.OK() && r.cfg.Runtime.OnStorageError == config.OnStorageErrorAbort {
		return res.Err
	}
	return nil
}

// readBack loads the stored customers and orders, drops exact duplicate rows
// and coerces driver values back to pipeline types.
func (r *runner) readBack(ctx context.Context) (dataset, error) {
	var ds dataset
	for _, tgt := range []struct {
		def schema.Table
		dst *records.Table
	}{
		{r.customersDef, &ds.customers},
		{r.ordersDef, &ds.orders},
	} {
		def := tgt.def
		err := r.step("read_"+def.Name, func() error {
			t, err := r.store.ReadTable(ctx, def)
			if err != nil {
				return err
			}
			t, dups := builtin.DropDuplicateRows(t)
			if dups > 0 {
				r.log.Info("duplicate rows dropped", "table", def.Name, "count", dups)
				metrics.RecordRows(r.cfg.Job, def.Name, transformer.ReasonDuplicate, dups)
			}
			t, _, err = builtin.Coerce{Types: def.Kinds(), Registry: r.readRegistry}.Apply(t)
			if err != nil {
				return fmt.Errorf("read %s: %w", def.Name, err)
			}
			*tgt.dst = t
			return nil
		})
		if err != nil {
			return dataset{}, err
		}
	}
	return ds, nil
}

func (r *runner) aggregateStage(ctx context.Context, ds dataset) error {
	col := r.cfg.Aggregate.OutlierColumn

	var orders records.Table
	err := r.step("outliers", func() error {
		var (
			b       builtin.Bounds
			removed int
			err     error
		)
		orders, b, removed, err = builtin.IQR{Column: col}.Apply(ds.orders)
		if err != nil {
			return err
		}
		r.log.Info("outliers removed", "column", col, "count", removed,
			"q1", b.Q1, "q3", b.Q3, "lower", b.Lower, "upper", b.Upper)
		metrics.RecordBounds(r.cfg.Job, col, b.Lower, b.Upper)
		metrics.RecordRows(r.cfg.Job, r.ordersDef.Name, "outlier", removed)
		return nil
	})
	if err != nil {
		return err
	}

	var out aggregate.Output
	err = r.step("aggregate", func() error {
		var err error
		if out, err = aggregate.Build(ds.customers, orders); err != nil {
			return err
		}
		r.log.Info("customers aggregated", "customers", len(out.Rows), "zero_order_customers", out.ZeroOrderCustomers)
		if out.Invalid != nil {
			if r.cfg.Aggregate.FailOnNull {
				return out.Invalid
			}
			r.log.Warn("aggregate contains nulls", "columns", out.Invalid.Columns, "rows", out.Invalid.Rows)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return r.persist(ctx, r.aggregateDef, out.Table)
}

func (r *runner) summary() {
	var failed []string
	var rows int64
	for _, res := range r.results {
		rows += res.Rows
		if !res.OK() {
			failed = append(failed, res.Table)
		}
	}
	if len(failed) > 0 {
		r.log.Error("run finished with failed writes", "tables", strings.Join(failed, ","), "rows_written", rows)
		return
	}
	r.log.Info("run finished", "tables_written", len(r.results), "rows_written", rows)
}
