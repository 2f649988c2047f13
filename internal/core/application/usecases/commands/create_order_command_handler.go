package commands

import (
	"context"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/metrics"
)

// CreateOrderCommandHandler inserts a new order in PENDING with its first
// audit event and announces it on the restaurant's channel.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order creation.
func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle persists the new order and its PENDING audit event in one
// transaction, then publishes post-commit.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, err := cmd.domainLineItems()
	if err != nil {
		return err
	}

	now := time.Now()
	newOrder, err := order.NewOrder(
		cmd.OrderID(), cmd.CustomerID(), cmd.RestaurantID(),
		items, cmd.DeliveryAddress(), cmd.SpecialInstructions(),
		cmd.TipCents(), now,
	)
	if err != nil {
		return err
	}

	event, err := order.NewEvent(newOrder.ID(), order.StatusPending,
		"order placed", map[string]string{"actor": "customer"}, now)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.Inc()
	h.publisher.PublishOrderStatusChanged(ports.OrderStatusChanged{
		OrderID:      newOrder.ID().String(),
		OrderNumber:  newOrder.OrderNumber(),
		CustomerID:   newOrder.CustomerID().String(),
		RestaurantID: newOrder.RestaurantID().String(),
		Status:       newOrder.Status().String(),
		At:           now.UTC(),
	})

	return nil
}
