package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

// AcceptDeliveryCommandHandler resolves the acceptance race. The ASSIGNED
// -> ACCEPTED edge is taken with a single conditional update inside the
// repository, so when several requests race, exactly one commits and the
// rest receive ErrConflict. The winner's courier is marked busy in the
// same transaction.
type AcceptDeliveryCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptDeliveryCommandHandler creates a handler for delivery acceptance.
func NewAcceptDeliveryCommandHandler(uowFactory UoWFactory, publisher ports.EventPublisher) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, cmd AcceptDeliveryCommand) error {
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
		return errs.NewAuthorizationError(cmd.CourierID().String(), "accept delivery "+cmd.DeliveryID().String())
	}

	now := time.Now()
	if err = deliveryRepo.Accept(ctx, cmd.DeliveryID(), now); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			metrics.ConflictsTotal.WithLabelValues("delivery").Inc()
		}
		return err
	}
	if err = aDelivery.Accept(now); err != nil {
		return err
	}

	if err = uow.CourierRepository().MarkBusy(ctx, cmd.CourierID()); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	metrics.DeliveryTransitionsTotal.WithLabelValues(delivery.StatusAccepted.String()).Inc()
	h.publisher.PublishDeliveryStatusChanged(ports.DeliveryStatusChanged{
		DeliveryID: aDelivery.ID().String(),
		OrderID:    aDelivery.OrderID().String(),
		CourierID:  aDelivery.CourierID().String(),
		Status:     aDelivery.Status().String(),
		At:         now.UTC(),
	})

	return nil
}
