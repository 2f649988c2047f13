// Package ws is the realtime gateway: an authenticated websocket fan-out
// of bus events plus a narrow relay for client-originated location pings.
// It never mutates order or delivery state; clients are expected to pull
// current state via the REST queries before subscribing.
package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/authtoken"
	"orderflow/internal/pkg/eventbus"
	"orderflow/internal/pkg/metrics"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// Broadcast rooms joined automatically at handshake based on role.
const (
	RoomCouriers  = "couriers"
	RoomMerchants = "merchants"
)

// Inbound frame types the gateway accepts.
const (
	MessageSubscribe   = "subscribe"
	MessageUnsubscribe = "unsubscribe"
	MessageLocation    = "location"
)

// KindLocationPing marks a raw, unvalidated courier position relayed
// straight from the socket. The persisted position still only moves
// through the location command.
const KindLocationPing = "courier.location_ping"

// TopicAuthorizer decides whether a principal may watch an entity
// stream. Implementations check the entity's linked parties; the
// gateway itself never reads persisted state.
type TopicAuthorizer interface {
	CanSubscribe(ctx context.Context, userID kernel.UUID, role access.Role, topic string) (bool, error)
}

// Gateway upgrades authenticated connections and bridges them to the
// event bus.
type Gateway struct {
	bus        *eventbus.Bus
	publisher  ports.EventPublisher
	authorizer TopicAuthorizer
	jwtSecret  []byte
	presence   *Presence
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewGateway creates the gateway.
func NewGateway(
	bus *eventbus.Bus,
	publisher ports.EventPublisher,
	authorizer TopicAuthorizer,
	jwtSecret []byte,
	logger *slog.Logger,
) *Gateway {
	return &Gateway{
		bus:        bus,
		publisher:  publisher,
		authorizer: authorizer,
		jwtSecret:  jwtSecret,
		presence:   NewPresence(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "realtime_gateway"),
	}
}

// Presence exposes the connection table for liveness queries.
func (g *Gateway) Presence() *Presence {
	return g.presence
}

// HandleConnection handles GET /ws. Authentication happens before the
// upgrade; a missing or invalid credential never becomes a socket.
func (g *Gateway) HandleConnection(ctx echo.Context) error {
	principal, err := g.authenticate(ctx)
	if err != nil {
		return ctx.JSON(http.StatusUnauthorized, map[string]string{"message": err.Error()})
	}

	conn, err := g.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return nil // Upgrade already wrote the HTTP error.
	}

	c := newClient(conn, principal)
	g.presence.register(c)
	metrics.SocketConnectionsActive.Inc()
	g.logger.Info("client connected",
		"userId", principal.UserID.String(), "role", string(principal.Role))

	c.subscribe(g.bus, eventbus.UserTopic(principal.UserID.String()))
	c.subscribe(g.bus, eventbus.RoleTopic(string(principal.Role)))
	switch principal.Role {
	case access.RoleCourier:
		c.subscribe(g.bus, RoomCouriers)
		c.subscribe(g.bus, eventbus.CourierTopic(principal.UserID.String()))
	case access.RoleRestaurant:
		c.subscribe(g.bus, RoomMerchants)
		c.subscribe(g.bus, eventbus.RestaurantTopic(principal.UserID.String()))
	}

	go c.writePump()
	g.readLoop(c)
	g.disconnect(c)
	return nil
}

func (g *Gateway) authenticate(ctx echo.Context) (authtoken.Principal, error) {
	token := ctx.QueryParam("token")
	if token == "" {
		header := ctx.Request().Header.Get(echo.HeaderAuthorization)
		token, _ = strings.CutPrefix(header, "Bearer ")
	}
	return authtoken.Parse(g.jwtSecret, token)
}

func (g *Gateway) readLoop(c *client) {
	for {
		var msg InboundMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case MessageSubscribe:
			if g.canSubscribe(c, msg.Topic) {
				c.subscribe(g.bus, msg.Topic)
			}
		case MessageUnsubscribe:
			c.unsubscribe(msg.Topic)
		case MessageLocation:
			g.relayLocation(c, msg)
		default:
			g.logger.Debug("ignoring unknown frame type", "type", msg.Type)
		}
	}
}

// relayLocation republishes a courier's raw position ping. It is a relay
// only: no validation against the delivery lifecycle, no persistence.
func (g *Gateway) relayLocation(c *client, msg InboundMessage) {
	if c.principal.Role != access.RoleCourier {
		return
	}

	courierID := c.principal.UserID.String()
	g.bus.Publish(eventbus.CourierTopic(courierID), KindLocationPing, ports.CourierLocation{
		CourierID: courierID,
		Latitude:  msg.Latitude,
		Longitude: msg.Longitude,
		At:        time.Now().UTC(),
	})
}

// topicIsSubscribable limits client-requested subscriptions to entity
// streams; user, role, and room topics are assigned at handshake only.
func topicIsSubscribable(topic string) bool {
	return strings.HasPrefix(topic, "order:") || strings.HasPrefix(topic, "delivery:")
}

// canSubscribe gates a subscribe frame: entity streams only, and only
// for a party of the entity. Denial is silent, like every other ignored
// frame.
func (g *Gateway) canSubscribe(c *client, topic string) bool {
	if !topicIsSubscribable(topic) {
		return false
	}

	allowed, err := g.authorizer.CanSubscribe(context.Background(), c.principal.UserID, c.principal.Role, topic)
	if err != nil {
		g.logger.Warn("subscription check failed",
			"userId", c.principal.UserID.String(), "topic", topic, "error", err)
		return false
	}
	return allowed
}

func (g *Gateway) disconnect(c *client) {
	c.close()
	g.presence.remove(c)
	metrics.SocketConnectionsActive.Dec()
	g.logger.Info("client disconnected", "userId", c.principal.UserID.String())

	if c.principal.Role == access.RoleCourier {
		g.publisher.PublishCourierLocationStale(ports.CourierLocationStale{
			CourierID: c.principal.UserID.String(),
			At:        time.Now().UTC(),
		})
	}
}
