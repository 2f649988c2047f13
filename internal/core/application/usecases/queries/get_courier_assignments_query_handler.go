package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCourierAssignmentsQueryHandler lists a courier's deliveries joined
// with the order fields needed to work them.
type GetCourierAssignmentsQueryHandler struct {
	db *gorm.DB
}

// NewGetCourierAssignmentsQueryHandler creates a handler for courier work lists.
func NewGetCourierAssignmentsQueryHandler(db *gorm.DB) GetCourierAssignmentsQueryHandler {
	return GetCourierAssignmentsQueryHandler{db: db}
}

// Handle returns the courier's deliveries, active first, then by
// assignment time descending.
func (h GetCourierAssignmentsQueryHandler) Handle(
	ctx context.Context,
	query GetCourierAssignmentsQuery,
) ([]CourierAssignmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.order_id,
			o.order_number,
			d.status,
			o.delivery_address,
			d.assigned_at,
			d.accepted_at,
			d.picked_up_at,
			d.delivered_at
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		WHERE d.courier_id = ?
		ORDER BY
			CASE WHEN d.status IN ('DELIVERED', 'CANCELLED') THEN 1 ELSE 0 END,
			d.assigned_at DESC
	`, query.CourierID().Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]CourierAssignmentView, 0)
	for rows.Next() {
		var view CourierAssignmentView
		var deliveryID, orderID uuid.UUID

		err = rows.Scan(
			&deliveryID,
			&orderID,
			&view.OrderNumber,
			&view.Status,
			&view.DeliveryAddress,
			&view.AssignedAt,
			&view.AcceptedAt,
			&view.PickedUpAt,
			&view.DeliveredAt,
		)
		if err != nil {
			return nil, err
		}

		if view.DeliveryID, err = kernel.UUIDFromBytes(deliveryID[:]); err != nil {
			return nil, err
		}
		if view.OrderID, err = kernel.UUIDFromBytes(orderID[:]); err != nil {
			return nil, err
		}
		assignments = append(assignments, view)
	}

	return assignments, rows.Err()
}
