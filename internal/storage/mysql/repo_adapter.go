package mysql

import (
	"context"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/storage"
	myddl "github.com/madhukaudana/Data-Engineer-Practical/internal/storage/mysql/ddl"
)

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// repository is the method set wrappedRepo delegates to.
type repository interface {
	Exec(ctx context.Context, sql string) error
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	Query(ctx context.Context, table string, columns []string) ([][]any, error)
}

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

// init registers the "mysql" backend and its DDL dialect.
func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("mysql", myddl.Dialect)
}
