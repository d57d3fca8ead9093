// Package schema holds the semantic column kinds and the table contracts of
// the delivery dataset: customers, orders and the derived customer_data.
package schema

// Kind is the semantic type a column is validated against.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindFloat
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindDate:
		return "date"
	default:
		return "text"
	}
}
