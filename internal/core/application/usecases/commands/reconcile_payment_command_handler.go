package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// ReconcilePaymentCommandHandler applies a verified payment outcome:
// PAID confirms the order, FAILED cancels it. Webhook redeliveries are
// absorbed: when the order already sits in the target status the
// handler returns nil without writing a second audit event.
type ReconcilePaymentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewReconcilePaymentCommandHandler creates a handler for payment reconciliation.
func NewReconcilePaymentCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher,
) ReconcilePaymentCommandHandler {
	return ReconcilePaymentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h ReconcilePaymentCommandHandler) Handle(ctx context.Context, cmd ReconcilePaymentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	target := order.StatusConfirmed
	message := "payment confirmed"
	if cmd.Outcome() == order.PaymentFailed {
		target = order.StatusCancelled
		message = "payment failed"
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	anOrder, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	// Redelivered webhook: the previous delivery already landed.
	if anOrder.Status() == target && anOrder.PaymentStatus() == cmd.Outcome() {
		metrics.PaymentWebhooksTotal.WithLabelValues("duplicate").Inc()
		return nil
	}

	previousStatus := anOrder.Status()
	now := time.Now()
	if err = anOrder.TransitionTo(target, now); err != nil {
		// A duplicate that raced past the check above is still benign;
		// any other illegal edge is a real reconciliation failure.
		if errors.Is(err, errs.ErrInvalidTransition) && anOrder.Status() == target {
			metrics.PaymentWebhooksTotal.WithLabelValues("duplicate").Inc()
			return nil
		}
		return err
	}
	if err = anOrder.SetPaymentStatus(cmd.Outcome(), now); err != nil {
		return err
	}

	event, err := order.NewEvent(anOrder.ID(), target, message,
		map[string]string{
			"actor":           "payment-provider",
			"providerEventId": cmd.ProviderEventID(),
		}, now)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, anOrder, previousStatus); err != nil {
		return err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.PaymentWebhooksTotal.WithLabelValues(cmd.Outcome().String()).Inc()
	metrics.OrderTransitionsTotal.WithLabelValues(target.String()).Inc()
	h.publisher.PublishOrderStatusChanged(ports.OrderStatusChanged{
		OrderID:      anOrder.ID().String(),
		OrderNumber:  anOrder.OrderNumber(),
		CustomerID:   anOrder.CustomerID().String(),
		RestaurantID: anOrder.RestaurantID().String(),
		Status:       anOrder.Status().String(),
		At:           now.UTC(),
	})

	return nil
}
