package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLineItems(t *testing.T) []order.LineItem {
	t.Helper()
	burger, err := order.NewLineItem("Smash Burger", 2, 950)
	require.NoError(t, err)
	fries, err := order.NewLineItem("Fries", 1, 400)
	require.NoError(t, err)
	return []order.LineItem{burger, fries}
}

func newTestOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		mustLineItems(t), "1 Main St", "ring twice", 300, time.Now())
	require.NoError(t, err)
	return o
}

func TestNewOrder_ComputesTotals(t *testing.T) {
	o := newTestOrder(t)

	// 2*950 + 400 = 2300 subtotal, 8% tax = 184, fee 499, tip 300.
	assert.Equal(t, int64(2300), o.SubtotalCents())
	assert.Equal(t, int64(184), o.TaxCents())
	assert.Equal(t, int64(499), o.DeliveryFeeCents())
	assert.Equal(t, int64(300), o.TipCents())
	assert.Equal(t, int64(3283), o.TotalCents())

	assert.Equal(t, order.StatusPending, o.Status())
	assert.Equal(t, order.PaymentPending, o.PaymentStatus())
	assert.Nil(t, o.CourierID())
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, o.OrderNumber())
	require.NoError(t, o.Validate())
}

func TestNewOrder_Validation(t *testing.T) {
	now := time.Now()
	customer, restaurant := kernel.NewUUID(), kernel.NewUUID()

	t.Run("missing_items", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), customer, restaurant,
			nil, "1 Main St", "", 0, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("missing_address", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), customer, restaurant,
			mustLineItems(t), "", "", 0, now)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("negative_tip", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), customer, restaurant,
			mustLineItems(t), "1 Main St", "", -1, now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("zero_value_ids", func(t *testing.T) {
		var zero kernel.UUID
		_, err := order.NewOrder(zero, customer, restaurant,
			mustLineItems(t), "1 Main St", "", 0, now)
		require.Error(t, err)
	})
}

func TestNewLineItem_Validation(t *testing.T) {
	_, err := order.NewLineItem("", 1, 100)
	require.Error(t, err)
	_, err = order.NewLineItem("Soup", 0, 100)
	require.Error(t, err)
	_, err = order.NewLineItem("Soup", 1, -1)
	require.Error(t, err)
}

func TestOrder_TransitionTo(t *testing.T) {
	t.Run("full_happy_path", func(t *testing.T) {
		o := newTestOrder(t)
		now := time.Now()

		for _, target := range []order.Status{
			order.StatusConfirmed, order.StatusPreparing, order.StatusReady,
		} {
			require.NoError(t, o.TransitionTo(target, now))
			assert.Equal(t, target, o.Status())
		}
		require.NoError(t, o.AssignCourier(kernel.NewUUID(), now))
		require.NoError(t, o.TransitionTo(order.StatusPickedUp, now))
		require.NoError(t, o.TransitionTo(order.StatusDelivered, now))
		assert.Equal(t, order.StatusDelivered, o.Status())
	})

	t.Run("illegal_edge_leaves_order_untouched", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.TransitionTo(order.StatusReady, time.Now())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.StatusPending, o.Status())
	})
}

func TestOrder_AssignCourier(t *testing.T) {
	now := time.Now()

	t.Run("only_when_ready", func(t *testing.T) {
		o := newTestOrder(t)
		err := o.AssignCourier(kernel.NewUUID(), now)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Nil(t, o.CourierID())
	})

	t.Run("assign_and_clear", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.TransitionTo(order.StatusConfirmed, now))
		require.NoError(t, o.TransitionTo(order.StatusPreparing, now))
		require.NoError(t, o.TransitionTo(order.StatusReady, now))

		courierID := kernel.NewUUID()
		require.NoError(t, o.AssignCourier(courierID, now))
		require.NotNil(t, o.CourierID())
		assert.True(t, courierID.IsEqual(*o.CourierID()))

		// Second assignment loses.
		err := o.AssignCourier(kernel.NewUUID(), now)
		require.ErrorIs(t, err, errs.ErrConflict)

		o.ClearCourier(now)
		assert.Nil(t, o.CourierID())
	})
}

func TestOrder_Validate_ZeroValue(t *testing.T) {
	var o order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
}

func TestNewEvent(t *testing.T) {
	orderID := kernel.NewUUID()
	ev, err := order.NewEvent(orderID, order.StatusConfirmed, "payment confirmed",
		map[string]string{"actor": "system"}, time.Now())
	require.NoError(t, err)
	require.NoError(t, ev.Validate())
	assert.True(t, orderID.IsEqual(ev.OrderID()))
	assert.Equal(t, order.StatusConfirmed, ev.Status())

	_, err = order.NewEvent(orderID, order.StatusUnknown, "", nil, time.Now())
	require.Error(t, err)

	var zero order.Event
	require.ErrorIs(t, zero.Validate(), order.ErrEventIsNotConstructed)
}
