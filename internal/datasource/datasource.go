// Package datasource abstracts where pipeline input bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source yields a fresh reader over one input on every Open. Name labels the
// input in logs and errors.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}
