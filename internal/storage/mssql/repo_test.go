package mssql

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/storage"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

func TestAdapterRoutesThroughHook(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()

	var gotDSN string
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotDSN = cfg.DSN
		return &Repository{}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "mssql", DSN: "sqlserver://sa:pw@localhost:1433?database=etl"})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if !strings.Contains(gotDSN, "database=etl") {
		t.Fatalf("DSN = %q", gotDSN)
	}
	repo.Close()
	if !closed {
		t.Fatalf("Close() did not invoke closeFn")
	}
}

// TestPersist_ConnectFailureIsReported checks that a factory error becomes a
// connect StorageError instead of aborting the caller.
func TestPersist_ConnectFailureIsReported(t *testing.T) {
	orig := newRepository
	defer func() { newRepository = orig }()
	newRepository = func(context.Context, Config) (*Repository, func(), error) {
		return nil, nil, errors.New("login failed for user 'sa'")
	}

	p := storage.NewPersister(storage.Config{Kind: "mssql", DSN: "sqlserver://sa:pw@localhost"}, nil)
	res := p.Persist(context.Background(), schema.Customers("customers"), records.Table{}, 500)

	var se *storage.StorageError
	if !errors.As(res.Err, &se) || se.Op != storage.OpConnect {
		t.Fatalf("Err = %v, want connect StorageError", res.Err)
	}
}

func TestNewRepository_BadDSN(t *testing.T) {
	t.Parallel()
	if _, _, err := NewRepository(context.Background(), Config{DSN: "sqlserver://host?connection+timeout=notanumber"}); err == nil {
		t.Fatalf("NewRepository(bad dsn) error = nil")
	}
}
