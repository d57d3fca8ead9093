// Package aggregate derives the per-customer summary written to
// customer_data: order count and revenue per customer, left-joined onto the
// full customer set with zero fill and a repeat-customer flag.
package aggregate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/madhukaudana/Data-Engineer-Practical/internal/schema"
	"github.com/madhukaudana/Data-Engineer-Practical/pkg/records"
)

// ValidationError reports columns that still hold nulls after the join.
type ValidationError struct {
	Columns []string
	Rows    int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("aggregate: %d row(s) with null values in %s", e.Rows, strings.Join(e.Columns, ", "))
}

// Output is the result of Build. Invalid is non-nil when the null check
// failed; Rows and Table are populated either way so the caller decides
// whether to write them.
type Output struct {
	Rows               []schema.CustomerAggregate
	Table              records.Table
	ZeroOrderCustomers int
	Invalid            *ValidationError
}

type totals struct {
	orders  int64
	revenue float64
}

// Build aggregates orders per customer_id and joins the totals onto every
// customer in customer order. Every order row counts toward total_orders;
// only non-missing amounts add to total_revenue. Both tables must already be
// coerced (int64 ids, float64 amounts). A customer_id that cannot be read as
// an int64 is an error.
func Build(customers, orders records.Table) (Output, error) {
	byCustomer := make(map[int64]*totals, customers.Len())
	for i, r := range orders.Rows {
		id, ok := r[schema.ColCustomerID].(int64)
		if !ok {
			// Orders without a usable customer_id cannot join anything.
			if r[schema.ColCustomerID] == nil {
				continue
			}
			return Output{}, fmt.Errorf("aggregate: orders row %d: customer_id %v is %T, want int64", i, r[schema.ColCustomerID], r[schema.ColCustomerID])
		}
		t := byCustomer[id]
		if t == nil {
			t = &totals{}
			byCustomer[id] = t
		}
		t.orders++
		if amt, ok := r[schema.ColTotalAmount].(float64); ok {
			t.revenue += amt
		}
	}

	out := Output{Rows: make([]schema.CustomerAggregate, 0, customers.Len())}
	nullCols := map[string]bool{}
	nullRows := 0
	for i, r := range customers.Rows {
		var row schema.CustomerAggregate
		rowNull := false

		switch id := r[schema.ColCustomerID].(type) {
		case int64:
			row.CustomerID = &id
		case nil:
			nullCols[schema.ColCustomerID] = true
			rowNull = true
		default:
			return Output{}, fmt.Errorf("aggregate: customers row %d: customer_id %v is %T, want int64", i, id, id)
		}
		if name, ok := r[schema.ColCustomerName].(string); ok {
			row.CustomerName = &name
		} else {
			nullCols[schema.ColCustomerName] = true
			rowNull = true
		}

		var t *totals
		if row.CustomerID != nil {
			t = byCustomer[*row.CustomerID]
		}
		if t != nil {
			row.TotalOrders = t.orders
			row.TotalRevenue = t.revenue
		} else {
			out.ZeroOrderCustomers++
		}
		row.RepeatCustomer = row.TotalOrders > schema.RepeatThreshold

		if rowNull {
			nullRows++
		}
		out.Rows = append(out.Rows, row)
	}

	if nullRows > 0 {
		cols := make([]string, 0, len(nullCols))
		for c := range nullCols {
			cols = append(cols, c)
		}
		sort.Strings(cols)
		out.Invalid = &ValidationError{Columns: cols, Rows: nullRows}
	}
	out.Table = ToTable(out.Rows)
	return out, nil
}

// ToTable projects rows onto the customer_data column order. The repeat flag
// becomes the integer 0 or 1; a nil id or name stays nil.
func ToTable(rows []schema.CustomerAggregate) records.Table {
	t := records.Table{
		Columns: schema.CustomerData("").ColumnNames(),
		Rows:    make([]records.Record, len(rows)),
	}
	for i, r := range rows {
		var id, name any
		if r.CustomerID != nil {
			id = *r.CustomerID
		}
		if r.CustomerName != nil {
			name = *r.CustomerName
		}
		repeat := int64(0)
		if r.RepeatCustomer {
			repeat = 1
		}
		t.Rows[i] = records.Record{
			schema.ColCustomerID:     id,
			schema.ColCustomerName:   name,
			schema.ColTotalOrders:    r.TotalOrders,
			schema.ColTotalRevenue:   r.TotalRevenue,
			schema.ColRepeatCustomer: repeat,
		}
	}
	return t
}
