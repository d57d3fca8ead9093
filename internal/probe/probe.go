// Package probe samples the head of a delimited file and suggests how to
// configure it as a pipeline input: which headers map onto the customers or
// orders contract, what kind each column holds, and the rename map needed.
package probe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/config"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/datasource"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/parser/csv"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/internal/transformer/builtin"
)

// DefaultMaxBytes is how much of the file is sampled when Options.MaxBytes is zero.
const DefaultMaxBytes = 64 << 10

// Roles a file can be probed as.
const (
	RoleCustomers = "customers"
	RoleOrders    = "orders"
)

// aliases maps lower-cased source headers onto contract columns per role.
var aliases = map[string]map[string]string{
	RoleCustomers: {
		"customer_id":   schema.ColCustomerID,
		"id":            schema.ColCustomerID,
		"name":          schema.ColCustomerName,
		"customer_name": schema.ColCustomerName,
	},
	RoleOrders: {
		"order_id":     schema.ColOrderID,
		"id":           schema.ColOrderID,
		"customer_id":  schema.ColCustomerID,
		"total_amount": schema.ColTotalAmount,
		"amount":       schema.ColTotalAmount,
		"total":        schema.ColTotalAmount,
		"order_date":   schema.ColOrderDate,
		"created_at":   schema.ColOrderDate,
		"date":         schema.ColOrderDate,
	},
}

// Options control sampling.
type Options struct {
	Role     string
	MaxBytes int
	Comma    rune
	Encoding string
	// DateLayouts are tried when testing for date columns; empty means the
	// cleaner's defaults.
	DateLayouts []string
}

// Column describes one sampled header.
type Column struct {
	Header string
	// Target is the contract column the header maps to, or empty.
	Target  string
	Kind    schema.Kind
	Missing int
}

// Result is the outcome of Probe.
type Result struct {
	Rows    int
	Columns []Column
	// Input is a ready-to-edit configuration for the file.
	Input config.Input
	// Unmapped lists contract columns no header maps onto.
	Unmapped []string
}

// Probe reads up to opt.MaxBytes of src, cut back to the last complete line,
// and infers a Column per header.
func Probe(ctx context.Context, src datasource.Source, opt Options) (Result, error) {
	contract, ok := contractFor(opt.Role)
	if !ok {
		return Result{}, fmt.Errorf("probe: unknown role %q (want %s or %s)", opt.Role, RoleCustomers, RoleOrders)
	}
	if opt.MaxBytes <= 0 {
		opt.MaxBytes = DefaultMaxBytes
	}

	sample, err := peek(ctx, src, opt.MaxBytes)
	if err != nil {
		return Result{}, fmt.Errorf("probe %s: %w", src.Name(), err)
	}

	tbl, err := csv.Load(ctx, bytesSource{name: src.Name(), b: sample}, csv.Spec{
		Comma: opt.Comma, Encoding: opt.Encoding,
	}, nil)
	if err != nil {
		return Result{}, err
	}

	parse := builtin.DefaultRegistry(opt.DateLayouts)
	res := Result{Rows: tbl.Len(), Input: config.Input{Path: src.Name(), Encoding: opt.Encoding}}
	if opt.Comma != 0 && opt.Comma != ',' {
		res.Input.Comma = string(opt.Comma)
	}

	mapped := map[string]bool{}
	for _, h := range tbl.Columns {
		col := Column{Header: h, Kind: schema.KindText}
		values := make([]any, 0, tbl.Len())
		for _, r := range tbl.Rows {
			if r.IsMissing(h) {
				col.Missing++
				continue
			}
			values = append(values, r[h])
		}
		col.Kind = inferKind(values, parse)

		if target, ok := aliases[opt.Role][strings.ToLower(strings.TrimSpace(h))]; ok && !mapped[target] {
			col.Target = target
			mapped[target] = true
			res.Input.Columns = append(res.Input.Columns, h)
			if h != target {
				if res.Input.Rename == nil {
					res.Input.Rename = map[string]string{}
				}
				res.Input.Rename[h] = target
			}
		}
		res.Columns = append(res.Columns, col)
	}

	for _, c := range contract.ColumnNames() {
		if !mapped[c] {
			res.Unmapped = append(res.Unmapped, c)
		}
	}
	sort.Strings(res.Unmapped)
	return res, nil
}

func contractFor(role string) (schema.Table, bool) {
	switch role {
	case RoleCustomers:
		return schema.Customers(role), true
	case RoleOrders:
		return schema.Orders(role), true
	default:
		return schema.Table{}, false
	}
}

// inferKind returns the narrowest kind every value parses as. No values
// means text.
func inferKind(values []any, reg builtin.Registry) schema.Kind {
	if len(values) == 0 {
		return schema.KindText
	}
	for _, k := range []schema.Kind{schema.KindInt, schema.KindFloat, schema.KindDate} {
		ok := true
		for _, v := range values {
			if _, err := reg[k](v); err != nil {
				ok = false
				break
			}
		}
		if ok {
			return k
		}
	}
	return schema.KindText
}

// peek reads up to n bytes and drops a trailing partial line when the
// limit was hit.
func peek(ctx context.Context, src datasource.Source, n int) ([]byte, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, int64(n)+1))
	if err != nil {
		return nil, err
	}
	if len(b) > n {
		b = b[:n]
		if i := bytes.LastIndexByte(b, '\n'); i >= 0 {
			b = b[:i+1]
		}
	}
	return b, nil
}

// bytesSource serves an in-memory sample through the datasource contract.
type bytesSource struct {
	name string
	b    []byte
}

func (s bytesSource) Name() string { return s.name }

func (s bytesSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.b)), nil
}
