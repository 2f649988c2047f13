package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/metrics"
)

// TransitionOrderCommandHandler advances an order along one lifecycle
// edge. The update is conditional on the status the handler read, so a
// concurrent transition surfaces as ErrConflict instead of a lost write.
type TransitionOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewTransitionOrderCommandHandler creates a handler for order transitions.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory, publisher ports.EventPublisher,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle applies the transition and its audit event in one transaction,
// then publishes post-commit.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
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

	previousStatus := anOrder.Status()
	now := time.Now()
	if err = anOrder.TransitionTo(cmd.Target(), now); err != nil {
		return err
	}

	event, err := order.NewEvent(anOrder.ID(), anOrder.Status(),
		"status changed", map[string]string{"actor": string(cmd.Role())}, now)
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

	metrics.OrderTransitionsTotal.WithLabelValues(anOrder.Status().String()).Inc()
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
