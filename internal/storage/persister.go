package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/logger"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// Result is the outcome of one Persist call. Err is nil only when the table
// was replaced and every batch was written; Rows and Batches count what was
// written before a failure.
type Result struct {
	Table   string
	Rows    int64
	Batches int
	Elapsed time.Duration
	Err     error
}

// OK reports whether the write fully succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Persister writes whole tables to the configured backend and reads them
// back. Each call opens its own repository and closes it before returning.
type Persister struct {
	cfg Config
	log *logger.Logger
}

// NewPersister returns a Persister for cfg. A nil log discards output.
func NewPersister(cfg Config, log *logger.Logger) *Persister {
	if log == nil {
		log = logger.Nop()
	}
	return &Persister{cfg: cfg, log: log}
}

// Persist replaces def's table with the rows of t, written in batches of
// batchSize. Columns are taken from def in declaration order; a column t
// lacks is written as NULL. Failures are logged and returned in Result.Err as
// *StorageError; Persist itself never panics on storage failures.
func (p *Persister) Persist(ctx context.Context, def schema.Table, t records.Table, batchSize int) Result {
	start := time.Now()
	res := Result{Table: def.Name}
	log := p.log.With("table", def.Name, "backend", p.cfg.Kind)

	fail := func(op string, err error) Result {
		res.Elapsed = time.Since(start)
		res.Err = &StorageError{Table: def.Name, Op: op, Err: err}
		log.Error("persist failed", "op", op, "rows_written", res.Rows, "error", err)
		return res
	}

	dialect, ok := DialectFor(p.cfg.Kind)
	if !ok {
		return fail(OpDDL, fmt.Errorf("no DDL dialect registered for storage kind %q", p.cfg.Kind))
	}
	repo, err := New(ctx, p.cfg)
	if err != nil {
		return fail(OpConnect, err)
	}
	defer repo.Close()

	if err := ReplaceTable(ctx, repo, dialect, def); err != nil {
		return fail(OpDDL, err)
	}

	cols := def.ColumnNames()
	n, batches, err := LoadBatches(ctx, cols, t.Project(cols), batchSize,
		func(ctx context.Context, columns []string, rows [][]any) (int64, error) {
			return repo.CopyFrom(ctx, def.Name, columns, rows)
		}, log)
	res.Rows, res.Batches = n, batches
	if err != nil {
		return fail(OpWrite, err)
	}

	res.Elapsed = time.Since(start)
	log.Info("table written", "rows", n, "batches", batches, "elapsed", res.Elapsed.Truncate(time.Millisecond))
	return res
}

// ReadTable returns every row of def's table with def's columns. Values are
// driver-typed; run them through the cleaner to get pipeline types.
func (p *Persister) ReadTable(ctx context.Context, def schema.Table) (records.Table, error) {
	log := p.log.With("table", def.Name, "backend", p.cfg.Kind)

	repo, err := New(ctx, p.cfg)
	if err != nil {
		log.Error("read failed", "op", OpConnect, "error", err)
		return records.Table{}, &StorageError{Table: def.Name, Op: OpConnect, Err: err}
	}
	defer repo.Close()

	cols := def.ColumnNames()
	rows, err := repo.Query(ctx, def.Name, cols)
	if err != nil {
		log.Error("read failed", "op", OpRead, "error", err)
		return records.Table{}, &StorageError{Table: def.Name, Op: OpRead, Err: err}
	}
	log.Info("table read", "rows", len(rows))
	return records.FromRows(cols, rows), nil
}
