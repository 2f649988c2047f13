package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// DeliverOrderCommandHandler completes a delivery: PICKED_UP -> DELIVERED
// on the delivery, the matching order cascade with its audit event, and
// the courier returned to the available pool, all in one transaction.
type DeliverOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewDeliverOrderCommandHandler creates a handler for delivery completion.
func NewDeliverOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) DeliverOrderCommandHandler {
	return DeliverOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h DeliverOrderCommandHandler) Handle(ctx context.Context, cmd DeliverOrderCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()
	aDelivery, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}
	if !aDelivery.IsHeldBy(cmd.CourierID()) {
		return errs.NewAuthorizationError(cmd.CourierID().String(), "deliver delivery "+cmd.DeliveryID().String())
	}

	now := time.Now()
	if err = aDelivery.Deliver(now); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, aDelivery, delivery.StatusPickedUp); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	anOrder, err := orderRepo.Get(ctx, aDelivery.OrderID())
	if err != nil {
		return err
	}
	previousStatus := anOrder.Status()
	if err = anOrder.TransitionTo(order.StatusDelivered, now); err != nil {
		return err
	}
	event, err := order.NewEvent(anOrder.ID(), order.StatusDelivered,
		"order delivered to customer", map[string]string{"actor": "courier"}, now)
	if err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, anOrder, previousStatus); err != nil {
		return err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return err
	}

	if err = uow.CourierRepository().MarkAvailable(ctx, cmd.CourierID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.DeliveryTransitionsTotal.WithLabelValues(delivery.StatusDelivered.String()).Inc()
	metrics.OrderTransitionsTotal.WithLabelValues(order.StatusDelivered.String()).Inc()
	h.publisher.PublishDeliveryStatusChanged(ports.DeliveryStatusChanged{
		DeliveryID: aDelivery.ID().String(),
		OrderID:    aDelivery.OrderID().String(),
		CourierID:  aDelivery.CourierID().String(),
		Status:     aDelivery.Status().String(),
		At:         now.UTC(),
	})
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
