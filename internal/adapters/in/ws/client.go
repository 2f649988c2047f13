package ws

import (
	"sync"

	"orderflow/internal/pkg/authtoken"
	"orderflow/internal/pkg/eventbus"

	"github.com/gorilla/websocket"
)

// sendBuffer is the per-connection outbound queue. A client that cannot
// drain it loses events rather than backpressuring the bus.
const sendBuffer = 32

// OutboundMessage is one event frame pushed to a connected client.
type OutboundMessage struct {
	Type    string `json:"type"`
	Topic   string `json:"topic,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// InboundMessage is one client-originated frame.
type InboundMessage struct {
	Type      string  `json:"type"`
	Topic     string  `json:"topic,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// client is one authenticated websocket connection with its bus
// subscriptions.
type client struct {
	conn      *websocket.Conn
	principal authtoken.Principal

	send chan OutboundMessage
	done chan struct{}

	mu        sync.Mutex
	subs      map[string]*eventbus.Subscription
	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, principal authtoken.Principal) *client {
	return &client{
		conn:      conn,
		principal: principal,
		send:      make(chan OutboundMessage, sendBuffer),
		done:      make(chan struct{}),
		subs:      make(map[string]*eventbus.Subscription),
	}
}

// subscribe attaches the client to a bus topic and forwards its envelopes
// onto the send queue. Subscribing twice to the same topic is a no-op.
func (c *client) subscribe(bus *eventbus.Bus, topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.subs[topic]; ok {
		return
	}

	sub := bus.Subscribe(topic)
	c.subs[topic] = sub

	go func() {
		for env := range sub.C() {
			c.enqueue(OutboundMessage{Type: env.Kind, Topic: env.Topic, Payload: env.Payload})
		}
	}()
}

func (c *client) unsubscribe(topic string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if sub, ok := c.subs[topic]; ok {
		sub.Cancel()
		delete(c.subs, topic)
	}
}

// enqueue queues a frame for delivery, dropping it when the client is
// gone or the queue is full.
func (c *client) enqueue(msg OutboundMessage) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
	}
}

// writePump serializes all writes to the connection.
func (c *client) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}
}

// close cancels every subscription and stops the write pump. Safe to call
// multiple times.
func (c *client) close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		for topic, sub := range c.subs {
			sub.Cancel()
			delete(c.subs, topic)
		}
		c.mu.Unlock()

		close(c.done)
		_ = c.conn.Close()
	})
}
