package schema

// Column is one column of a table contract. SQLType uses the backend-neutral
// vocabulary understood by every dialect's MapType: bigint, integer, float,
// date and varchar(n).
type Column struct {
	Name    string
	Kind    Kind
	SQLType string
}

// Table is the contract for one destination table.
type Table struct {
	Name    string
	Columns []Column
}

// ColumnNames returns the column names in declaration order.
func (t Table) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Kinds returns the column → semantic kind mapping used by coercion.
func (t Table) Kinds() map[string]Kind {
	out := make(map[string]Kind, len(t.Columns))
	for _, c := range t.Columns {
		out[c.Name] = c.Kind
	}
	return out
}

// Column names shared across the three tables.
const (
	ColCustomerID     = "customer_id"
	ColCustomerName   = "customer_name"
	ColOrderID        = "order_id"
	ColTotalAmount    = "total_amount"
	ColOrderDate      = "order_date"
	ColTotalOrders    = "total_orders"
	ColTotalRevenue   = "total_revenue"
	ColRepeatCustomer = "repeat_customer"
)

// Customers returns the customers contract stored under name.
func Customers(name string) Table {
	return Table{Name: name, Columns: []Column{
		{ColCustomerID, KindInt, "bigint"},
		{ColCustomerName, KindText, "varchar(255)"},
	}}
}

// Orders returns the orders contract stored under name.
func Orders(name string) Table {
	return Table{Name: name, Columns: []Column{
		{ColOrderID, KindInt, "bigint"},
		{ColCustomerID, KindInt, "bigint"},
		{ColTotalAmount, KindFloat, "float"},
		{ColOrderDate, KindDate, "date"},
	}}
}

// CustomerData returns the derived aggregate contract stored under name.
func CustomerData(name string) Table {
	return Table{Name: name, Columns: []Column{
		{ColCustomerID, KindInt, "bigint"},
		{ColCustomerName, KindText, "varchar(255)"},
		{ColTotalOrders, KindInt, "integer"},
		{ColTotalRevenue, KindFloat, "float"},
		{ColRepeatCustomer, KindInt, "integer"},
	}}
}
