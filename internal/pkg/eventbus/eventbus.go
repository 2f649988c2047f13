// Package eventbus provides the process-wide, in-memory publish/subscribe
// primitive used to fan out state changes to live subscribers.
//
// Topics are string keys of the form "<entity>:<id>" (see the Topic
// helpers). Delivery is at-most-once and best-effort: there is no
// persistence or replay, a subscriber registered after a publish never
// observes that event, and a slow subscriber whose buffer is full has the
// event dropped rather than blocking the publisher.
//
// The bus is never the system of record. Any client that (re)connects must
// first pull current state via a point query and only then subscribe
// ("pull-then-subscribe"); otherwise transitions that happened while
// disconnected are lost. Because topic granularity can be coarser than a
// caller's filter, every consumer must additionally filter delivered
// envelopes by the exact id it cares about before acting on them.
package eventbus

import (
	"fmt"
	"log/slog"
	"sync"
)

// subscriberBuffer is the per-subscription channel capacity. Events beyond
// it are dropped for that subscriber only.
const subscriberBuffer = 16

// Topic constructors for the supported entity channels.
func OrderTopic(orderID string) string           { return "order:" + orderID }
func DeliveryTopic(deliveryID string) string     { return "delivery:" + deliveryID }
func RestaurantTopic(restaurantID string) string { return "restaurant:" + restaurantID }
func CourierTopic(courierID string) string       { return "courier:" + courierID }
func UserTopic(userID string) string             { return "user:" + userID }
func RoleTopic(role string) string               { return "role:" + role }

// Envelope is what travels through the bus: the topic it was published
// under, a kind discriminator (e.g. "order.status_changed"), and the
// payload itself.
type Envelope struct {
	Topic   string
	Kind    string
	Payload any
}

// Subscription is a live, cancellable sequence of envelopes for one topic.
// It is restartable by resubscribing but not resumable: events published
// while unsubscribed are gone.
type Subscription struct {
	topic  string
	ch     chan Envelope
	cancel func()
	once   sync.Once
}

// C returns the receive channel. It is closed when the subscription is
// cancelled.
func (s *Subscription) C() <-chan Envelope {
	return s.ch
}

// Topic returns the topic this subscription is registered under.
func (s *Subscription) Topic() string {
	return s.topic
}

// Cancel removes the subscription from the bus and closes its channel.
// Safe to call multiple times.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// Bus is a topic-keyed in-memory broker. The zero value is not usable;
// create one with NewBus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger *slog.Logger
}

// NewBus creates an empty bus that logs dropped deliveries to logger.
func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger.With("component", "eventbus"),
	}
}

// Subscribe registers a new subscription for topic. The caller owns the
// subscription and must Cancel it when done.
func (b *Bus) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		topic: topic,
		ch:    make(chan Envelope, subscriberBuffer),
	}
	sub.cancel = func() {
		b.mu.Lock()
		if set, ok := b.subs[topic]; ok {
			delete(set, sub)
			if len(set) == 0 {
				delete(b.subs, topic)
			}
		}
		b.mu.Unlock()
		close(sub.ch)
	}

	b.mu.Lock()
	set, ok := b.subs[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		b.subs[topic] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	return sub
}

// Publish hands the envelope to every subscriber currently registered for
// topic and returns immediately. Full subscriber buffers are skipped; the
// drop is logged, never surfaced, so a publish can never fail or block the
// state transition that triggered it.
func (b *Bus) Publish(topic, kind string, payload any) {
	env := Envelope{Topic: topic, Kind: kind, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[topic] {
		select {
		case sub.ch <- env:
		default:
			b.logger.Warn("subscriber buffer full, event dropped",
				"topic", topic, "kind", kind)
		}
	}
}

// SubscriberCount reports how many subscriptions a topic currently holds.
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// String implements fmt.Stringer for debug logging.
func (b *Bus) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fmt.Sprintf("eventbus(topics=%d)", len(b.subs))
}
