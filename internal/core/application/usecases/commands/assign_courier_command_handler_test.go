package commands_test

import (
	"testing"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignCourierCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	anOrder := newTestOrder(t, order.StatusReady)
	courierID := kernel.NewUUID()
	deliveryID := kernel.NewUUID()
	cmd, err := commands.NewAssignCourierCommand(deliveryID, anOrder.ID(), courierID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	publisher := new(MockEventPublisher)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", mock.Anything, anOrder.ID()).Return(anOrder, nil)
	deliveryRepo.On("Add", mock.Anything, mock.AnythingOfType("*delivery.Delivery")).Return(nil)
	orderRepo.On("Update", mock.Anything, anOrder, order.StatusReady).Return(nil)
	publisher.On("PublishDeliveryAssigned", mock.MatchedBy(func(e ports.DeliveryAssigned) bool {
		return e.DeliveryID == deliveryID.String() && e.CourierID == courierID.String()
	})).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewAssignCourierCommandHandler(factory, publisher)
	require.NoError(t, h.Handle(ctx, cmd))
	require.NotNil(t, anOrder.CourierID())
	assert.True(t, anOrder.CourierID().IsEqual(courierID))
	publisher.AssertExpectations(t)
}

func TestAssignCourierCommandHandler_Handle_OrderNotReady(t *testing.T) {
	ctx := t.Context()
	anOrder := newTestOrder(t, order.StatusPreparing)
	cmd, err := commands.NewAssignCourierCommand(kernel.NewUUID(), anOrder.ID(), kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", mock.Anything, anOrder.ID()).Return(anOrder, nil)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewAssignCourierCommandHandler(factory, new(MockEventPublisher))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Nil(t, anOrder.CourierID())
}

func TestAssignCourierCommandHandler_Handle_SecondDeliveryRejected(t *testing.T) {
	ctx := t.Context()
	anOrder := newTestOrder(t, order.StatusReady)
	cmd, err := commands.NewAssignCourierCommand(kernel.NewUUID(), anOrder.ID(), kernel.NewUUID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DeliveryRepository").Return(deliveryRepo)
	uow.On("Rollback", ctx).Return(nil)
	orderRepo.On("Get", mock.Anything, anOrder.ID()).Return(anOrder, nil)
	deliveryRepo.On("Add", mock.Anything, mock.Anything).
		Return(errs.NewConflictError("delivery", "order already has an active delivery"))

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewAssignCourierCommandHandler(factory, new(MockEventPublisher))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
