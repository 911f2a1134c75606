package selection

import (
	"strings"

	"github.com/kailas-cloud/bizlist/internal/domain"
)

// Field is a sortable business column.
type Field string

// Sortable fields.
const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldCreatedAt Field = "created_at"
)

// IsValid checks if the field is sortable.
func (f Field) IsValid() bool {
	return f == FieldID || f == FieldName || f == FieldCreatedAt
}

// Order is a deterministic ordering. id is always the final tie-break.
type Order struct {
	Field Field
	Desc  bool
}

// ParseOrder builds an Order from query-string style values.
// Empty field means id; empty direction means ascending.
func ParseOrder(field, direction string) (Order, error) {
	o := Order{Field: Field(strings.ToLower(field))}
	if o.Field == "" {
		o.Field = FieldID
	}
	if !o.Field.IsValid() {
		return Order{}, domain.Validationf("unsupported order field %q", field)
	}
	switch strings.ToLower(direction) {
	case "", "asc":
	case "desc":
		o.Desc = true
	default:
		return Order{}, domain.Validationf("unsupported order direction %q", direction)
	}
	return o, nil
}

// Sampling picks how many parents to return and in what order.
type Sampling struct {
	// Random draws a fresh random order per call. Order is ignored.
	Random bool
	Order  Order
	// Limit is mandatory and must be at least 1.
	Limit int
}

// Sample attaches ordering and a mandatory limit to a composed selection.
// Filters stay in the selection, so sampling draws from the filtered pool.
func Sample(sel Selection, s Sampling) (Selection, error) {
	if s.Limit < 1 {
		return Selection{}, domain.Validationf("limit must be at least 1, got %d", s.Limit)
	}
	if s.Random {
		s.Order = Order{}
	} else {
		if s.Order.Field == "" {
			s.Order.Field = FieldID
		}
		if !s.Order.Field.IsValid() {
			return Selection{}, domain.Validationf("unsupported order field %q", s.Order.Field)
		}
	}
	sel.sampling = &s
	return sel, nil
}
