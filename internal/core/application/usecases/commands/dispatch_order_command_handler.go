package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/courier"
	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// DispatchOrderCommandHandler pairs the oldest waiting READY order with
// an available courier and creates the ASSIGNED delivery. Restaurants
// are not geocoded, so the picker falls back to first-available; the
// proximity ranking engages for couriers with cached positions once a
// reference point exists.
type DispatchOrderCommandHandler struct {
	uowFactory UoWFactory
	picker     services.CourierPicker
	publisher  ports.EventPublisher
}

// NewDispatchOrderCommandHandler creates a handler for order dispatch.
func NewDispatchOrderCommandHandler(
	uowFactory UoWFactory,
	picker services.CourierPicker,
	publisher ports.EventPublisher,
) DispatchOrderCommandHandler {
	return DispatchOrderCommandHandler{
		uowFactory: uowFactory,
		picker:     picker,
		publisher:  publisher,
	}
}

// Handle selects the order and courier, then creates the delivery and
// links the courier in one transaction. ErrNoOrderToDispatch and
// services.ErrNoCourierAvailable are expected idle outcomes.
func (h DispatchOrderCommandHandler) Handle(ctx context.Context, cmd DispatchOrderCommand) error {
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
	anOrder, err := orderRepo.GetFirstReadyUnassigned(ctx)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return ErrNoOrderToDispatch
		}
		return err
	}

	courierRepo := uow.CourierRepository()
	couriers, err := courierRepo.GetAllAvailable(ctx)
	if err != nil {
		return err
	}

	// An available courier may still hold an unanswered ASSIGNED offer;
	// is_available only flips on acceptance. Skip them so successive job
	// ticks never stack offers on one courier.
	deliveryRepo := uow.DeliveryRepository()
	idle := make([]*courier.Profile, 0, len(couriers))
	for _, candidate := range couriers {
		_, lookupErr := deliveryRepo.GetActiveByCourierID(ctx, candidate.UserID())
		if lookupErr == nil {
			continue
		}
		if !errors.Is(lookupErr, errs.ErrObjectNotFound) {
			return lookupErr
		}
		idle = append(idle, candidate)
	}

	picked, err := h.picker.Pick(nil, idle)
	if err != nil {
		return err
	}

	now := time.Now()
	newDelivery, err := delivery.NewDelivery(kernel.NewUUID(), anOrder.ID(), picked.UserID(), now)
	if err != nil {
		return err
	}
	if err = anOrder.AssignCourier(picked.UserID(), now); err != nil {
		return err
	}

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
		CourierID:  picked.UserID().String(),
		At:         now.UTC(),
	})

	return nil
}
