package busadapter_test

import (
	"log/slog"
	"testing"
	"time"

	"orderflow/internal/adapters/out/busadapter"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPublisher() (*busadapter.BusEventPublisher, *eventbus.Bus) {
	bus := eventbus.NewBus(slog.Default())
	return busadapter.NewBusEventPublisher(bus), bus
}

func receive(t *testing.T, sub *eventbus.Subscription) eventbus.Envelope {
	t.Helper()
	select {
	case env := <-sub.C():
		return env
	case <-time.After(time.Second):
		t.Fatalf("no envelope on %s", sub.Topic())
		return eventbus.Envelope{}
	}
}

func assertSilent(t *testing.T, sub *eventbus.Subscription) {
	t.Helper()
	select {
	case env := <-sub.C():
		t.Fatalf("unexpected envelope on %s: %v", sub.Topic(), env)
	default:
	}
}

func TestPublishOrderStatusChanged_FansOutToOrderRestaurantAndCustomer(t *testing.T) {
	publisher, bus := newPublisher()
	orderSub := bus.Subscribe(eventbus.OrderTopic("o-1"))
	restaurantSub := bus.Subscribe(eventbus.RestaurantTopic("r-1"))
	customerSub := bus.Subscribe(eventbus.UserTopic("u-1"))
	otherOrderSub := bus.Subscribe(eventbus.OrderTopic("o-2"))
	defer orderSub.Cancel()
	defer restaurantSub.Cancel()
	defer customerSub.Cancel()
	defer otherOrderSub.Cancel()

	event := ports.OrderStatusChanged{
		OrderID:      "o-1",
		OrderNumber:  "OF-100001",
		CustomerID:   "u-1",
		RestaurantID: "r-1",
		Status:       "CONFIRMED",
		At:           time.Now(),
	}
	publisher.PublishOrderStatusChanged(event)

	for _, sub := range []*eventbus.Subscription{orderSub, restaurantSub, customerSub} {
		env := receive(t, sub)
		assert.Equal(t, busadapter.KindOrderStatusChanged, env.Kind)
		payload, ok := env.Payload.(ports.OrderStatusChanged)
		require.True(t, ok)
		assert.Equal(t, event, payload)
	}
	assertSilent(t, otherOrderSub)
}

func TestPublishDeliveryAssigned_ReachesOfferedCourier(t *testing.T) {
	publisher, bus := newPublisher()
	courierSub := bus.Subscribe(eventbus.UserTopic("c-1"))
	orderSub := bus.Subscribe(eventbus.OrderTopic("o-1"))
	defer courierSub.Cancel()
	defer orderSub.Cancel()

	publisher.PublishDeliveryAssigned(ports.DeliveryAssigned{
		DeliveryID: "d-1", OrderID: "o-1", CourierID: "c-1", At: time.Now(),
	})

	assert.Equal(t, busadapter.KindDeliveryAssigned, receive(t, courierSub).Kind)
	assert.Equal(t, busadapter.KindDeliveryAssigned, receive(t, orderSub).Kind)
}

func TestPublishCourierLocation_ReachesDeliveryWatchers(t *testing.T) {
	publisher, bus := newPublisher()
	deliverySub := bus.Subscribe(eventbus.DeliveryTopic("d-1"))
	defer deliverySub.Cancel()

	publisher.PublishCourierLocation(ports.CourierLocation{
		DeliveryID: "d-1", CourierID: "c-1", Latitude: 40.7, Longitude: -74.0, At: time.Now(),
	})

	env := receive(t, deliverySub)
	assert.Equal(t, busadapter.KindCourierLocation, env.Kind)
	payload, ok := env.Payload.(ports.CourierLocation)
	require.True(t, ok)
	assert.Equal(t, 40.7, payload.Latitude)
}

func TestPublishCourierLocationStale_SkipsDeliveryTopicWhenIdle(t *testing.T) {
	publisher, bus := newPublisher()
	courierSub := bus.Subscribe(eventbus.CourierTopic("c-1"))
	defer courierSub.Cancel()

	publisher.PublishCourierLocationStale(ports.CourierLocationStale{
		CourierID: "c-1", At: time.Now(),
	})

	env := receive(t, courierSub)
	assert.Equal(t, busadapter.KindCourierLocationStale, env.Kind)
}

func TestPublishCourierLocationStale_IncludesActiveDelivery(t *testing.T) {
	publisher, bus := newPublisher()
	deliverySub := bus.Subscribe(eventbus.DeliveryTopic("d-9"))
	defer deliverySub.Cancel()

	publisher.PublishCourierLocationStale(ports.CourierLocationStale{
		CourierID: "c-1", DeliveryID: "d-9", At: time.Now(),
	})

	env := receive(t, deliverySub)
	payload, ok := env.Payload.(ports.CourierLocationStale)
	require.True(t, ok)
	assert.Equal(t, "c-1", payload.CourierID)
}
