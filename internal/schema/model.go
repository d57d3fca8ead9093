package schema

// CustomerAggregate is the derived per-customer summary written to
// customer_data. CustomerID and CustomerName are nil when the customer row
// lacked them.
type CustomerAggregate struct {
	CustomerID     *int64  `db:"customer_id"`
	CustomerName   *string `db:"customer_name"`
	TotalOrders    int64   `db:"total_orders"`
	TotalRevenue   float64 `db:"total_revenue"`
	RepeatCustomer bool    `db:"repeat_customer"`
}

// RepeatThreshold is the order count a customer must exceed to be flagged as
// a repeat customer.
const RepeatThreshold = 1
