package order

import (
	"orderflow/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// The state machine is a directed graph with no cycles:
//
//	PENDING ──> CONFIRMED ──> PREPARING ──> READY ──> PICKED_UP ──> DELIVERED
//	   │            │
//	   └────────────┴──> CANCELLED
//
// CANCELLED is reachable only from PENDING or CONFIRMED; once a restaurant
// starts preparing, the order runs to completion.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// StatusPending is the initial status: the order exists but payment has
	// not been confirmed yet.
	StatusPending

	// StatusConfirmed means the payment provider confirmed payment.
	StatusConfirmed

	// StatusPreparing means the restaurant started preparing the order.
	StatusPreparing

	// StatusReady means the order is ready for courier pickup.
	StatusReady

	// StatusPickedUp means the courier collected the order.
	StatusPickedUp

	// StatusDelivered is the happy-path terminal state.
	StatusDelivered

	// StatusCancelled is the terminal state for orders cancelled before
	// preparation started.
	StatusCancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusPending:   "PENDING",
		StatusConfirmed: "CONFIRMED",
		StatusPreparing: "PREPARING",
		StatusReady:     "READY",
		StatusPickedUp:  "PICKED_UP",
		StatusDelivered: "DELIVERED",
		StatusCancelled: "CANCELLED",
	}
}

// allowedEdges is the authoritative allowed-edges table. A transition is
// legal iff the target appears in the source's set.
func allowedEdges() map[Status][]Status {
	return map[Status][]Status{
		StatusPending:   {StatusConfirmed, StatusCancelled},
		StatusConfirmed: {StatusPreparing, StatusCancelled},
		StatusPreparing: {StatusReady},
		StatusReady:     {StatusPickedUp},
		StatusPickedUp:  {StatusDelivered},
	}
}

// StatusFromString parses the persisted wire form ("PENDING", ...).
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("order status " + s)
}

// String returns the persisted wire form of the status.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate reports whether the status is one of the defined lifecycle
// states. StatusUnknown and out-of-range values are invalid.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidError("order status")
	}
	return nil
}

// CanTransitionTo reports whether the edge s -> target exists in the
// lifecycle graph.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedEdges()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status if the edge is legal, or an
// InvalidTransitionError leaving the caller's state untouched.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewInvalidTransitionError("order", s.String(), target.String())
	}
	return target, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// IsCancellable reports whether the order may still be cancelled.
// Policy: only before the restaurant starts preparing.
func (s Status) IsCancellable() bool {
	return s == StatusPending || s == StatusConfirmed
}
