package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order snapshot with items and audit
// trail directly from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single-order reads.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle loads the order row, its line items, and its events. Returns
// ObjectNotFoundError when no order exists for the id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var resp GetOrderQueryResponse

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_id,
			restaurant_id,
			courier_id,
			status,
			payment_status,
			subtotal_cents,
			tax_cents,
			delivery_fee_cents,
			tip_cents,
			total_cents,
			delivery_address,
			special_instructions,
			created_at,
			updated_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var id, customerID, restaurantID uuid.UUID
	var courierID *uuid.UUID
	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&customerID,
		&restaurantID,
		&courierID,
		&resp.Status,
		&resp.PaymentStatus,
		&resp.SubtotalCents,
		&resp.TaxCents,
		&resp.DeliveryFeeCents,
		&resp.TipCents,
		&resp.TotalCents,
		&resp.DeliveryAddress,
		&resp.SpecialInstructions,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderID", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if courierID != nil {
		cid, cidErr := kernel.UUIDFromBytes(courierID[:])
		if cidErr != nil {
			return GetOrderQueryResponse{}, cidErr
		}
		resp.CourierID = &cid
	}

	if resp.LineItems, err = h.loadLineItems(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.Events, err = h.loadEvents(ctx, query.OrderID()); err != nil {
		return GetOrderQueryResponse{}, err
	}

	return resp, nil
}

func (h GetOrderQueryHandler) loadLineItems(ctx context.Context, orderID kernel.UUID) ([]LineItemView, error) {
	items := make([]LineItemView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			name,
			quantity,
			unit_price_cents
		FROM order_line_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item LineItemView
		if err = rows.Scan(&item.Name, &item.Quantity, &item.UnitPriceCents); err != nil {
			return nil, err
		}
		item.TotalCents = item.UnitPriceCents * int64(item.Quantity)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (h GetOrderQueryHandler) loadEvents(ctx context.Context, orderID kernel.UUID) ([]OrderEventView, error) {
	events := make([]OrderEventView, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			status,
			message,
			metadata,
			created_at
		FROM order_events
		WHERE order_id = ?
		ORDER BY created_at, id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event OrderEventView
		var metadata sql.NullString
		var createdAt time.Time
		if err = rows.Scan(&event.Status, &event.Message, &metadata, &createdAt); err != nil {
			return nil, err
		}
		if metadata.Valid && metadata.String != "" {
			if err = json.Unmarshal([]byte(metadata.String), &event.Metadata); err != nil {
				return nil, err
			}
		}
		event.CreatedAt = createdAt
		events = append(events, event)
	}
	return events, rows.Err()
}
