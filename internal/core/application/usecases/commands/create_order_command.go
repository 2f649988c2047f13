package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// LineItemInput is one requested order position as it arrives from the
// command boundary, before being turned into a domain line item.
type LineItemInput struct {
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// CreateOrderCommand represents a customer's request to place an order.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID             kernel.UUID
	customerID          kernel.UUID
	restaurantID        kernel.UUID
	lineItems           []LineItemInput
	deliveryAddress     string
	specialInstructions string
	tipCents            int64

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates ids, items, address and tip and returns
// the command.
func NewCreateOrderCommand(
	orderID, customerID, restaurantID kernel.UUID,
	lineItems []LineItemInput,
	deliveryAddress, specialInstructions string,
	tipCents int64,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		orderID.Validate(),
		customerID.Validate(),
		restaurantID.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}
	if len(lineItems) == 0 {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("lineItems")
	}
	if deliveryAddress == "" {
		return CreateOrderCommand{}, errs.NewValueIsRequiredError("deliveryAddress")
	}
	if tipCents < 0 {
		return CreateOrderCommand{}, errs.NewValueIsInvalidError("tipCents")
	}

	return CreateOrderCommand{
		orderID:             orderID,
		customerID:          customerID,
		restaurantID:        restaurantID,
		lineItems:           lineItems,
		deliveryAddress:     deliveryAddress,
		specialInstructions: specialInstructions,
		tipCents:            tipCents,
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID        { return c.orderID }
func (c CreateOrderCommand) CustomerID() kernel.UUID     { return c.customerID }
func (c CreateOrderCommand) RestaurantID() kernel.UUID   { return c.restaurantID }
func (c CreateOrderCommand) LineItems() []LineItemInput  { return c.lineItems }
func (c CreateOrderCommand) DeliveryAddress() string     { return c.deliveryAddress }
func (c CreateOrderCommand) SpecialInstructions() string { return c.specialInstructions }
func (c CreateOrderCommand) TipCents() int64             { return c.tipCents }

// domainLineItems converts the raw inputs to validated domain line items.
func (c CreateOrderCommand) domainLineItems() ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(c.lineItems))
	for _, in := range c.lineItems {
		item, err := order.NewLineItem(in.Name, in.Quantity, in.UnitPriceCents)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}
