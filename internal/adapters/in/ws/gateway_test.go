package ws_test

import (
	"context"
	"log/slog"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"orderflow/internal/adapters/in/ws"
	"orderflow/internal/adapters/out/busadapter"
	"orderflow/internal/core/application/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/authtoken"
	"orderflow/internal/pkg/eventbus"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtSecret = []byte("ws-test-secret")

type gatewayFixture struct {
	gateway *ws.Gateway
	bus     *eventbus.Bus
	server  *httptest.Server
}

// authorizerFunc adapts a closure to the gateway's subscription check.
type authorizerFunc func(ctx context.Context, userID kernel.UUID, role access.Role, topic string) (bool, error)

func (f authorizerFunc) CanSubscribe(ctx context.Context, userID kernel.UUID, role access.Role, topic string) (bool, error) {
	return f(ctx, userID, role, topic)
}

func allowEveryTopic(context.Context, kernel.UUID, access.Role, string) (bool, error) {
	return true, nil
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	return newGatewayFixtureWithAuthorizer(t, authorizerFunc(allowEveryTopic))
}

func newGatewayFixtureWithAuthorizer(t *testing.T, authorizer ws.TopicAuthorizer) *gatewayFixture {
	t.Helper()

	bus := eventbus.NewBus(slog.Default())
	gateway := ws.NewGateway(bus, busadapter.NewBusEventPublisher(bus), authorizer, jwtSecret, slog.Default())

	e := echo.New()
	e.GET("/ws", gateway.HandleConnection)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &gatewayFixture{gateway: gateway, bus: bus, server: server}
}

func (f *gatewayFixture) wsURL(token string) string {
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	if token != "" {
		url += "?token=" + token
	}
	return url
}

func (f *gatewayFixture) connect(t *testing.T, userID kernel.UUID, role access.Role) *websocket.Conn {
	t.Helper()

	token, err := authtoken.Sign(jwtSecret, userID, role, time.Hour)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	// Handshake registration happens server-side after the upgrade.
	require.Eventually(t, func() bool {
		return f.gateway.Presence().IsUserConnected(userID.String())
	}, time.Second, 10*time.Millisecond)

	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) ws.OutboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg ws.OutboundMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHandshake_MissingToken_IsRejected(t *testing.T) {
	f := newGatewayFixture(t)

	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(""), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestHandshake_ForgedToken_IsRejected(t *testing.T) {
	f := newGatewayFixture(t)

	token, err := authtoken.Sign([]byte("other-secret"), kernel.NewUUID(), access.RoleCustomer, time.Hour)
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(token), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestConnectedCustomer_ReceivesTargetedPush(t *testing.T) {
	f := newGatewayFixture(t)
	userID := kernel.NewUUID()
	conn := f.connect(t, userID, access.RoleCustomer)

	payload := ports.OrderStatusChanged{OrderID: "o-1", Status: "CONFIRMED"}
	f.bus.Publish(eventbus.UserTopic(userID.String()), busadapter.KindOrderStatusChanged, payload)

	frame := readFrame(t, conn)
	assert.Equal(t, busadapter.KindOrderStatusChanged, frame.Type)
	assert.Equal(t, eventbus.UserTopic(userID.String()), frame.Topic)
}

func TestSubscribeFrame_JoinsOrderTopic(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.connect(t, kernel.NewUUID(), access.RoleCustomer)

	orderTopic := eventbus.OrderTopic("o-42")
	require.NoError(t, conn.WriteJSON(ws.InboundMessage{Type: ws.MessageSubscribe, Topic: orderTopic}))

	require.Eventually(t, func() bool {
		return f.bus.SubscriberCount(orderTopic) == 1
	}, time.Second, 10*time.Millisecond)

	f.bus.Publish(orderTopic, busadapter.KindOrderStatusChanged, ports.OrderStatusChanged{OrderID: "o-42"})

	frame := readFrame(t, conn)
	assert.Equal(t, orderTopic, frame.Topic)
}

func TestSubscribeFrame_ForeignUserTopic_IsIgnored(t *testing.T) {
	f := newGatewayFixture(t)
	conn := f.connect(t, kernel.NewUUID(), access.RoleCustomer)

	foreignTopic := eventbus.UserTopic(kernel.NewUUID().String())
	require.NoError(t, conn.WriteJSON(ws.InboundMessage{Type: ws.MessageSubscribe, Topic: foreignTopic}))

	assert.Never(t, func() bool {
		return f.bus.SubscriberCount(foreignTopic) > 0
	}, 200*time.Millisecond, 20*time.Millisecond)
}

func TestSubscribeFrame_ForeignOrderTopic_IsDenied(t *testing.T) {
	customerID := kernel.NewUUID()
	ownedTopic := eventbus.OrderTopic(kernel.NewUUID().String())
	foreignTopic := eventbus.OrderTopic(kernel.NewUUID().String())

	// Only the customer's own order passes the ownership check.
	f := newGatewayFixtureWithAuthorizer(t, authorizerFunc(
		func(_ context.Context, userID kernel.UUID, _ access.Role, topic string) (bool, error) {
			return userID.IsEqual(customerID) && topic == ownedTopic, nil
		}))
	conn := f.connect(t, customerID, access.RoleCustomer)

	require.NoError(t, conn.WriteJSON(ws.InboundMessage{Type: ws.MessageSubscribe, Topic: foreignTopic}))
	assert.Never(t, func() bool {
		return f.bus.SubscriberCount(foreignTopic) > 0
	}, 200*time.Millisecond, 20*time.Millisecond)

	require.NoError(t, conn.WriteJSON(ws.InboundMessage{Type: ws.MessageSubscribe, Topic: ownedTopic}))
	require.Eventually(t, func() bool {
		return f.bus.SubscriberCount(ownedTopic) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestCourierLocationPing_IsRelayedToBus(t *testing.T) {
	f := newGatewayFixture(t)
	courierID := kernel.NewUUID()
	conn := f.connect(t, courierID, access.RoleCourier)

	relay := f.bus.Subscribe(eventbus.CourierTopic(courierID.String()))
	defer relay.Cancel()

	require.NoError(t, conn.WriteJSON(ws.InboundMessage{
		Type: ws.MessageLocation, Latitude: 40.7, Longitude: -74.0,
	}))

	select {
	case env := <-relay.C():
		assert.Equal(t, ws.KindLocationPing, env.Kind)
		payload, ok := env.Payload.(ports.CourierLocation)
		require.True(t, ok)
		assert.Equal(t, courierID.String(), payload.CourierID)
		assert.Equal(t, 40.7, payload.Latitude)
	case <-time.After(time.Second):
		t.Fatal("location ping was not relayed")
	}
}

func TestCustomerLocationPing_IsNotRelayed(t *testing.T) {
	f := newGatewayFixture(t)
	userID := kernel.NewUUID()
	conn := f.connect(t, userID, access.RoleCustomer)

	relay := f.bus.Subscribe(eventbus.CourierTopic(userID.String()))
	defer relay.Cancel()

	require.NoError(t, conn.WriteJSON(ws.InboundMessage{
		Type: ws.MessageLocation, Latitude: 40.7, Longitude: -74.0,
	}))

	select {
	case env := <-relay.C():
		t.Fatalf("customer ping relayed: %v", env)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCourierDisconnect_PublishesStalenessSignal(t *testing.T) {
	f := newGatewayFixture(t)
	courierID := kernel.NewUUID()
	conn := f.connect(t, courierID, access.RoleCourier)

	stale := f.bus.Subscribe(eventbus.CourierTopic(courierID.String()))
	defer stale.Cancel()

	require.NoError(t, conn.Close())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case env := <-stale.C():
			if env.Kind != busadapter.KindCourierLocationStale {
				continue
			}
			payload, ok := env.Payload.(ports.CourierLocationStale)
			require.True(t, ok)
			assert.Equal(t, courierID.String(), payload.CourierID)
			assert.False(t, f.gateway.Presence().IsUserConnected(courierID.String()))
			return
		case <-deadline:
			t.Fatal("no staleness signal after disconnect")
		}
	}
}

func TestPresence_TracksConnectionCount(t *testing.T) {
	f := newGatewayFixture(t)
	first := kernel.NewUUID()
	second := kernel.NewUUID()

	f.connect(t, first, access.RoleCustomer)
	conn := f.connect(t, second, access.RoleCourier)
	assert.Equal(t, 2, f.gateway.Presence().ConnectionCount())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return f.gateway.Presence().ConnectionCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.True(t, f.gateway.Presence().IsUserConnected(first.String()))
}
