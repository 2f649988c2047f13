package commands

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrReconcilePaymentCommandIsNotConstructed = errors.New(
	"ReconcilePaymentCommand must be created via NewReconcilePaymentCommand constructor",
)

// ReconcilePaymentCommand applies a payment provider's verified webhook
// outcome to an order. providerEventID identifies the provider-side
// event for the audit trail and for spotting redeliveries.
type ReconcilePaymentCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	outcome         order.PaymentStatus
	providerEventID string

	guard guard.ConstructorGuard
}

// NewReconcilePaymentCommand accepts only settled outcomes (PAID or
// FAILED); the provider never webhooks a return to pending.
func NewReconcilePaymentCommand(
	orderID kernel.UUID,
	outcome order.PaymentStatus,
	providerEventID string,
) (ReconcilePaymentCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReconcilePaymentCommand{}, err
	}
	if outcome != order.PaymentPaid && outcome != order.PaymentFailed {
		return ReconcilePaymentCommand{}, errs.NewValueIsInvalidError("payment outcome")
	}
	if providerEventID == "" {
		return ReconcilePaymentCommand{}, errs.NewValueIsRequiredError("providerEventID")
	}

	return ReconcilePaymentCommand{
		orderID:         orderID,
		outcome:         outcome,
		providerEventID: providerEventID,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReconcilePaymentCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePaymentCommandIsNotConstructed)
}

func (c ReconcilePaymentCommand) OrderID() kernel.UUID         { return c.orderID }
func (c ReconcilePaymentCommand) Outcome() order.PaymentStatus { return c.outcome }
func (c ReconcilePaymentCommand) ProviderEventID() string      { return c.providerEventID }
