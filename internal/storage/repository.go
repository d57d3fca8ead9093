// Package storage contains the storage-agnostic contracts of the pipeline:
// the Repository every backend implements, the backend factory, the DDL
// dialect registry, a batched loader and the Persister that replaces a table
// and writes rows into it.
//
// Backends live in subpackages and register themselves from init; import
// storage/all to make every backend available.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Config selects and addresses a backend.
type Config struct {
	// Kind is the registered backend name: mysql, postgres, mssql, sqlite.
	Kind string
	// DSN is handed to the backend driver unchanged.
	DSN string
}

// Repository is one open connection (or pool) to a backend.
type Repository interface {
	// Exec runs a statement without results, typically DDL.
	Exec(ctx context.Context, sql string) error
	// CopyFrom bulk-inserts rows aligned with columns into table and
	// returns the number of rows written.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)
	// Query returns every row of table projected onto columns.
	Query(ctx context.Context, table string, columns []string) ([][]any, error)
	// Close releases the connection.
	Close()
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	factMu    sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend available under kind. Registering the same kind
// again replaces the previous factory.
func Register(kind string, f Factory) {
	factMu.Lock()
	defer factMu.Unlock()
	factories[kind] = f
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	factMu.RLock()
	f, ok := factories[cfg.Kind]
	factMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage kind %q (registered: %v)", cfg.Kind, ListKinds())
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered backend kinds, sorted.
func ListKinds() []string {
	factMu.RLock()
	defer factMu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
