package storage

import "fmt"

// Storage operations named in StorageError.Op.
const (
	OpConnect = "connect"
	OpDDL     = "ddl"
	OpWrite   = "write"
	OpRead    = "read"
)

// StorageError reports a failed storage operation on one table.
type StorageError struct {
	Table string
	Op    string
	Err   error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
