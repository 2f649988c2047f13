package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// CancelOrderCommandHandler cancels an order that has not entered
// preparation. If an offered (still ASSIGNED) delivery exists it is
// cancelled in the same transaction; a delivery the courier already
// accepted blocks cancellation with ErrConflict.
type CancelOrderCommandHandler struct {
	uowFactory OrderDeliveryUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory OrderDeliveryUoWFactory, publisher ports.EventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if !anOrder.Status().IsCancellable() {
		return errs.NewInvalidTransitionError("order", anOrder.Status().String(), order.StatusCancelled.String())
	}

	now := time.Now()
	deliveryRepo := uow.DeliveryRepository()
	activeDelivery, err := deliveryRepo.GetActiveByOrderID(ctx, anOrder.ID())
	switch {
	case err == nil:
		if activeDelivery.Status() != delivery.StatusAssigned {
			return errs.NewConflictError("order", "delivery already accepted by courier")
		}
		if err = activeDelivery.Cancel(); err != nil {
			return err
		}
		if err = deliveryRepo.Update(ctx, activeDelivery, delivery.StatusAssigned); err != nil {
			return err
		}
		anOrder.ClearCourier(now)
	case errors.Is(err, errs.ErrObjectNotFound):
		// nothing to unwind
	default:
		return err
	}

	previousStatus := anOrder.Status()
	if err = anOrder.TransitionTo(order.StatusCancelled, now); err != nil {
		return err
	}

	message := "order cancelled"
	if cmd.Reason() != "" {
		message = "order cancelled: " + cmd.Reason()
	}
	event, err := order.NewEvent(anOrder.ID(), order.StatusCancelled,
		message, map[string]string{"actor": string(cmd.Role())}, now)
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

	metrics.OrderTransitionsTotal.WithLabelValues(order.StatusCancelled.String()).Inc()
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
