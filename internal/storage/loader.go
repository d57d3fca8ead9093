package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/logger"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns) and return the number of rows
// reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into consecutive batches of batchSize and calls
// copyFn for each. It returns the rows reported by copyFn, the number of
// batches that succeeded and the first error; no batch runs after a failure.
//
// A progress line with running totals and rows/sec is logged per batch.
func LoadBatches(
	ctx context.Context,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
	log *logger.Logger,
) (int64, int, error) {
	if batchSize <= 0 {
		return 0, 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, 0, fmt.Errorf("copyFn must not be nil")
	}
	if log == nil {
		log = logger.Nop()
	}

	var (
		total   int64
		batches int
		start   = time.Now()
		last    = start
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, batches, err
		}
		hi := lo + batchSize
		if hi > len(rows) {
			hi = len(rows)
		}

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Error("batch insert failed", "batch", batches+1, "inserted", n, "total_inserted", total, "error", err)
			return total, batches, err
		}
		batches++

		now := time.Now()
		rps := float64(0)
		if since := now.Sub(last); since > 0 {
			rps = float64(n) / since.Seconds()
		}
		log.Debug("batch inserted",
			"batch", batches,
			"rps", int64(rps),
			"inserted", n,
			"total_inserted", total,
			"elapsed", now.Sub(start).Truncate(time.Millisecond),
		)
		last = now
	}
	return total, batches, nil
}
