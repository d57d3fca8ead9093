package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/ddl"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
)

var (
	ddlMu    sync.RWMutex
	dialects = map[string]ddl.Dialect{}
)

// RegisterDDL registers (or replaces) the DDL dialect for a storage kind. It
// is called from backend packages' init functions next to Register.
func RegisterDDL(kind string, d ddl.Dialect) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	dialects[kind] = d
}

// DialectFor returns the dialect registered for kind.
func DialectFor(kind string) (ddl.Dialect, bool) {
	ddlMu.RLock()
	defer ddlMu.RUnlock()
	d, ok := dialects[kind]
	return d, ok
}

// TableDefFor converts a table contract into the DDL model. Every column is
// nullable: cleaning keeps explicit missing values.
func TableDefFor(def schema.Table) ddl.TableDef {
	td := ddl.TableDef{FQN: def.Name, Columns: make([]ddl.ColumnDef, len(def.Columns))}
	for i, c := range def.Columns {
		td.Columns[i] = ddl.ColumnDef{Name: c.Name, SQLType: c.SQLType, Nullable: true}
	}
	return td
}

// ReplaceTable drops def's table if it exists and creates it again from the
// contract's column types.
func ReplaceTable(ctx context.Context, repo Repository, d ddl.Dialect, def schema.Table) error {
	create, err := d.CreateTableSQL(TableDefFor(def))
	if err != nil {
		return err
	}
	if err := repo.Exec(ctx, d.DropTableSQL(def.Name)); err != nil {
		return fmt.Errorf("drop %s: %w", def.Name, err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return fmt.Errorf("create %s: %w", def.Name, err)
	}
	return nil
}
