package order

import (
	"fmt"

	"orderflow/internal/pkg/errs"
)

// LineItem is one priced position of an order. The name and unit price are
// snapshots taken at order time; catalog changes after that never affect an
// existing order.
type LineItem struct {
	name           string
	quantity       int
	unitPriceCents int64
}

// NewLineItem validates and creates a line item. Quantity must be positive
// and the unit price non-negative.
func NewLineItem(name string, quantity int, unitPriceCents int64) (LineItem, error) {
	if name == "" {
		return LineItem{}, errs.NewValueIsRequiredError("line item name")
	}
	if quantity <= 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	if unitPriceCents < 0 {
		return LineItem{}, errs.NewValueIsInvalidErrorWithCause("unitPriceCents",
			fmt.Errorf("%d is negative", unitPriceCents))
	}

	return LineItem{
		name:           name,
		quantity:       quantity,
		unitPriceCents: unitPriceCents,
	}, nil
}

// Name returns the snapshotted item name.
func (li LineItem) Name() string {
	return li.name
}

// Quantity returns how many units were ordered.
func (li LineItem) Quantity() int {
	return li.quantity
}

// UnitPriceCents returns the snapshotted unit price in cents.
func (li LineItem) UnitPriceCents() int64 {
	return li.unitPriceCents
}

// TotalCents returns quantity times unit price.
func (li LineItem) TotalCents() int64 {
	return int64(li.quantity) * li.unitPriceCents
}
