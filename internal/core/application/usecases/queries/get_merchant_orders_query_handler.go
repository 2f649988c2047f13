package queries

import (
	"context"

	"orderflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetMerchantOrdersQueryHandler lists a restaurant's orders for the
// merchant dashboard.
type GetMerchantOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetMerchantOrdersQueryHandler creates a handler for merchant order lists.
func NewGetMerchantOrdersQueryHandler(db *gorm.DB) GetMerchantOrdersQueryHandler {
	return GetMerchantOrdersQueryHandler{db: db}
}

// Handle returns the restaurant's orders newest first, filtered by
// status when one is given.
func (h GetMerchantOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetMerchantOrdersQuery,
) ([]OrderSummaryView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sqlQuery := `
		SELECT
			id,
			order_number,
			customer_id,
			status,
			payment_status,
			total_cents,
			created_at
		FROM orders
		WHERE restaurant_id = ?
	`
	args := []any{query.RestaurantID().Bytes()}
	if query.Status() != nil {
		sqlQuery += " AND status = ?"
		args = append(args, query.Status().String())
	}
	sqlQuery += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, query.Limit(), query.Offset())

	rows, err := h.db.WithContext(ctx).Raw(sqlQuery, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]OrderSummaryView, 0)
	for rows.Next() {
		var summary OrderSummaryView
		var id, customerID uuid.UUID

		err = rows.Scan(
			&id,
			&summary.OrderNumber,
			&customerID,
			&summary.Status,
			&summary.PaymentStatus,
			&summary.TotalCents,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if summary.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if summary.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
			return nil, err
		}
		orders = append(orders, summary)
	}

	return orders, rows.Err()
}
