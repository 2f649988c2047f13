package delivery

import "orderflow/internal/pkg/errs"

// Status represents the lifecycle state of a delivery.
//
//	ASSIGNED ──> ACCEPTED ──> PICKED_UP ──> DELIVERED
//	    │            │
//	    └────────────┴──> CANCELLED
type Status int

const (
	StatusUnknown Status = iota
	StatusAssigned
	StatusAccepted
	StatusPickedUp
	StatusDelivered
	StatusCancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusAssigned:  "ASSIGNED",
		StatusAccepted:  "ACCEPTED",
		StatusPickedUp:  "PICKED_UP",
		StatusDelivered: "DELIVERED",
		StatusCancelled: "CANCELLED",
	}
}

func allowedEdges() map[Status][]Status {
	return map[Status][]Status{
		StatusAssigned: {StatusAccepted, StatusCancelled},
		StatusAccepted: {StatusPickedUp, StatusCancelled},
		StatusPickedUp: {StatusDelivered},
	}
}

// StatusFromString parses the persisted wire form.
func StatusFromString(s string) (Status, error) {
	for status, str := range statusStrings() {
		if str == s && status != StatusUnknown {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("delivery status " + s)
}

// String returns the persisted wire form.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// Validate rejects StatusUnknown and out-of-range values.
func (s Status) Validate() error {
	if s <= StatusUnknown || s > StatusCancelled {
		return errs.NewValueIsInvalidError("delivery status")
	}
	return nil
}

// CanTransitionTo reports whether the edge s -> target exists.
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range allowedEdges()[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo returns the target status if the edge is legal.
func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return StatusUnknown, err
	}
	if !s.CanTransitionTo(target) {
		return StatusUnknown, errs.NewInvalidTransitionError("delivery", s.String(), target.String())
	}
	return target, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
