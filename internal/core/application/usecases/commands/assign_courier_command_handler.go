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

// AssignCourierCommandHandler creates an ASSIGNED delivery for a READY
// order and links the courier on the order. The repository's uniqueness
// guard turns a double assignment into ErrConflict.
type AssignCourierCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewAssignCourierCommandHandler creates a handler for courier assignment.
func NewAssignCourierCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AssignCourierCommandHandler {
	return AssignCourierCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h AssignCourierCommandHandler) Handle(ctx context.Context, cmd AssignCourierCommand) error {
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
	if anOrder.Status() != order.StatusReady {
		return errs.NewConflictError("order", "not ready for courier assignment")
	}

	now := time.Now()
	newDelivery, err := delivery.NewDelivery(cmd.DeliveryID(), cmd.OrderID(), cmd.CourierID(), now)
	if err != nil {
		return err
	}

	if err = anOrder.AssignCourier(cmd.CourierID(), now); err != nil {
		return err
	}

	deliveryRepo := uow.DeliveryRepository()
	if err = deliveryRepo.Add(ctx, newDelivery); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, anOrder, order.StatusReady); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.DeliveryTransitionsTotal.WithLabelValues(delivery.StatusAssigned.String()).Inc()
	h.publisher.PublishDeliveryAssigned(ports.DeliveryAssigned{
		DeliveryID: newDelivery.ID().String(),
		OrderID:    anOrder.ID().String(),
		CourierID:  cmd.CourierID().String(),
		At:         now.UTC(),
	})

	return nil
}
