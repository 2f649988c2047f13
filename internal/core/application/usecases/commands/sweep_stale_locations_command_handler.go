package commands

import (
	"context"
	"errors"
	"time"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// SweepStaleLocationsCommandHandler publishes a staleness signal for
// every busy courier whose cached position has gone quiet, so order
// watchers know the dot on the map can no longer be trusted. Publishing
// only; nothing is persisted.
type SweepStaleLocationsCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewSweepStaleLocationsCommandHandler creates a handler for the staleness sweep.
func NewSweepStaleLocationsCommandHandler(
	uowFactory UoWFactory, publisher ports.EventPublisher,
) SweepStaleLocationsCommandHandler {
	return SweepStaleLocationsCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h SweepStaleLocationsCommandHandler) Handle(ctx context.Context, cmd SweepStaleLocationsCommand) error {
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

	couriers, err := uow.CourierRepository().GetAll(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	deliveryRepo := uow.DeliveryRepository()

	type staleSignal struct {
		courierID  string
		deliveryID string
	}
	signals := make([]staleSignal, 0)

	for _, c := range couriers {
		// Idle couriers have nobody watching them.
		if c.IsAvailable() || !c.LocationIsStaleAt(now, cmd.MaxAge()) {
			continue
		}

		signal := staleSignal{courierID: c.UserID().String()}
		activeDelivery, dErr := deliveryRepo.GetActiveByCourierID(ctx, c.UserID())
		switch {
		case dErr == nil:
			signal.deliveryID = activeDelivery.ID().String()
		case errors.Is(dErr, errs.ErrObjectNotFound):
			// busy flag set but no active delivery row; still worth flagging
		default:
			return dErr
		}
		signals = append(signals, signal)
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	for _, s := range signals {
		h.publisher.PublishCourierLocationStale(ports.CourierLocationStale{
			CourierID:  s.courierID,
			DeliveryID: s.deliveryID,
			At:         now.UTC(),
		})
	}

	return nil
}
