package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/guard"
)

var ErrGetCourierAssignmentsQueryIsNotConstructed = errors.New(
	"GetCourierAssignmentsQuery must be created via NewGetCourierAssignmentsQuery constructor",
)

// GetCourierAssignmentsQuery lists a courier's deliveries, newest first,
// active ones before finished ones.
type GetCourierAssignmentsQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierAssignmentsQuery creates the query for one courier.
func NewGetCourierAssignmentsQuery(courierID kernel.UUID) (GetCourierAssignmentsQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierAssignmentsQuery{}, err
	}
	return GetCourierAssignmentsQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierAssignmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierAssignmentsQueryIsNotConstructed)
}

func (q GetCourierAssignmentsQuery) CourierID() kernel.UUID { return q.courierID }

// CourierAssignmentView is one delivery row in the courier's work list,
// joined with the order fields the courier needs to act on it.
type CourierAssignmentView struct {
	DeliveryID      kernel.UUID `json:"deliveryId"`
	OrderID         kernel.UUID `json:"orderId"`
	OrderNumber     string      `json:"orderNumber"`
	Status          string      `json:"status"`
	DeliveryAddress string      `json:"deliveryAddress"`
	AssignedAt      time.Time   `json:"assignedAt"`
	AcceptedAt      *time.Time  `json:"acceptedAt,omitempty"`
	PickedUpAt      *time.Time  `json:"pickedUpAt,omitempty"`
	DeliveredAt     *time.Time  `json:"deliveredAt,omitempty"`
}
