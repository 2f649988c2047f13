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

// PickupOrderCommandHandler moves a delivery ACCEPTED -> PICKED_UP and
// cascades the order to PICKED_UP with its audit event in the same
// transaction. The courier order edge is only ever driven through here.
type PickupOrderCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewPickupOrderCommandHandler creates a handler for order pickup.
func NewPickupOrderCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) PickupOrderCommandHandler {
	return PickupOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h PickupOrderCommandHandler) Handle(ctx context.Context, cmd PickupOrderCommand) error {
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
		return errs.NewAuthorizationError(cmd.CourierID().String(), "pickup delivery "+cmd.DeliveryID().String())
	}

	now := time.Now()
	if err = aDelivery.Pickup(now); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, aDelivery, delivery.StatusAccepted); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	anOrder, err := orderRepo.Get(ctx, aDelivery.OrderID())
	if err != nil {
		return err
	}
	previousStatus := anOrder.Status()
	if err = anOrder.TransitionTo(order.StatusPickedUp, now); err != nil {
		return err
	}
	event, err := order.NewEvent(anOrder.ID(), order.StatusPickedUp,
		"courier picked up the order", map[string]string{"actor": "courier"}, now)
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

	metrics.DeliveryTransitionsTotal.WithLabelValues(delivery.StatusPickedUp.String()).Inc()
	metrics.OrderTransitionsTotal.WithLabelValues(order.StatusPickedUp.String()).Inc()
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
