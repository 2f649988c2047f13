package order

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

// ErrEventIsNotConstructed is returned when an Event bypassed NewEvent.
var ErrEventIsNotConstructed = errors.New("Event must be created via NewEvent")

// Event is one immutable audit row: which status an order entered, when,
// and why. Every accepted order transition produces exactly one Event, so
// the sequence of recorded statuses for an order is a valid walk of the
// lifecycle graph. Events are never mutated or deleted.
type Event struct {
	id        kernel.UUID
	orderID   kernel.UUID
	status    Status
	message   string
	metadata  map[string]string
	createdAt time.Time

	guard guard.ConstructorGuard
}

// NewEvent records that orderID entered status at now. metadata is
// free-form context (actor, provider event id, ...) and may be nil.
func NewEvent(
	orderID kernel.UUID,
	status Status,
	message string,
	metadata map[string]string,
	now time.Time,
) (*Event, error) {
	if err := errors.Join(
		orderID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Event{
		id:        kernel.NewUUID(),
		orderID:   orderID,
		status:    status,
		message:   message,
		metadata:  metadata,
		createdAt: now.UTC(),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// RestoreEvent rebuilds an audit row from persistence.
func RestoreEvent(
	id kernel.UUID,
	orderID kernel.UUID,
	status Status,
	message string,
	metadata map[string]string,
	createdAt time.Time,
) (*Event, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Event{
		id:        id,
		orderID:   orderID,
		status:    status,
		message:   message,
		metadata:  metadata,
		createdAt: createdAt,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the event came through a constructor.
func (e *Event) Validate() error {
	if e == nil {
		return ErrEventIsNotConstructed
	}
	return e.guard.Validate(ErrEventIsNotConstructed)
}

func (e *Event) ID() kernel.UUID             { return e.id }
func (e *Event) OrderID() kernel.UUID        { return e.orderID }
func (e *Event) Status() Status              { return e.status }
func (e *Event) Message() string             { return e.message }
func (e *Event) Metadata() map[string]string { return e.metadata }
func (e *Event) CreatedAt() time.Time        { return e.createdAt }
