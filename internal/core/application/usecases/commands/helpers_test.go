package commands_test

import (
	"testing"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/delivery"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

func testLineItems() []commands.LineItemInput {
	return []commands.LineItemInput{
		{Name: "Pad Thai", Quantity: 2, UnitPriceCents: 1150},
	}
}

// newTestOrder builds an order and walks it to the requested status.
func newTestOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()

	items := []order.LineItem{mustLineItem(t, "Pad Thai", 2, 1150)}
	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		items, "1 Main St", "", 0, time.Now(),
	)
	require.NoError(t, err)

	path := []order.Status{
		order.StatusConfirmed, order.StatusPreparing, order.StatusReady,
		order.StatusPickedUp, order.StatusDelivered,
	}
	for _, next := range path {
		if o.Status() == status {
			break
		}
		require.NoError(t, o.TransitionTo(next, time.Now()))
	}
	require.Equal(t, status, o.Status())
	return o
}

func mustLineItem(t *testing.T, name string, qty int, priceCents int64) order.LineItem {
	t.Helper()
	li, err := order.NewLineItem(name, qty, priceCents)
	require.NoError(t, err)
	return li
}

// newTestDelivery builds a delivery and walks it to the requested status.
func newTestDelivery(t *testing.T, courierID kernel.UUID, status delivery.Status) *delivery.Delivery {
	t.Helper()

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), courierID, time.Now())
	require.NoError(t, err)

	switch status {
	case delivery.StatusAssigned:
	case delivery.StatusAccepted:
		require.NoError(t, d.Accept(time.Now()))
	case delivery.StatusPickedUp:
		require.NoError(t, d.Accept(time.Now()))
		require.NoError(t, d.Pickup(time.Now()))
	case delivery.StatusDelivered:
		require.NoError(t, d.Accept(time.Now()))
		require.NoError(t, d.Pickup(time.Now()))
		require.NoError(t, d.Deliver(time.Now()))
	case delivery.StatusCancelled:
		require.NoError(t, d.Cancel())
	default:
		t.Fatalf("unsupported delivery status %v", status)
	}
	require.Equal(t, status, d.Status())
	return d
}
