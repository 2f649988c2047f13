package commands

import (
	"context"
	"errors"

	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
)

// UpdateCourierLocationCommandHandler overwrites the courier's cached
// position and, when the courier is working an active delivery, mirrors
// it onto the delivery so watchers of the order see it live.
type UpdateCourierLocationCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
}

// NewUpdateCourierLocationCommandHandler creates a handler for location updates.
func NewUpdateCourierLocationCommandHandler(
	uowFactory UoWFactory, publisher ports.EventPublisher,
) UpdateCourierLocationCommandHandler {
	return UpdateCourierLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

func (h UpdateCourierLocationCommandHandler) Handle(ctx context.Context, cmd UpdateCourierLocationCommand) error {
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

	courierRepo := uow.CourierRepository()
	profile, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = profile.UpdateLocation(cmd.Location()); err != nil {
		return err
	}
	if err = courierRepo.UpdateLocation(ctx, profile.UserID(), cmd.Location()); err != nil {
		return err
	}

	var deliveryID string
	deliveryRepo := uow.DeliveryRepository()
	activeDelivery, err := deliveryRepo.GetActiveByCourierID(ctx, cmd.CourierID())
	switch {
	case err == nil:
		if err = activeDelivery.UpdateLocation(cmd.Location(), nil); err != nil {
			return err
		}
		if err = deliveryRepo.Update(ctx, activeDelivery, activeDelivery.Status()); err != nil {
			return err
		}
		deliveryID = activeDelivery.ID().String()
	case errors.Is(err, errs.ErrObjectNotFound):
		// idle courier, nothing to mirror
	default:
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if deliveryID != "" {
		h.publisher.PublishCourierLocation(ports.CourierLocation{
			DeliveryID: deliveryID,
			CourierID:  cmd.CourierID().String(),
			Latitude:   cmd.Location().Latitude(),
			Longitude:  cmd.Location().Longitude(),
			At:         cmd.Location().ObservedAt(),
		})
	}

	return nil
}
