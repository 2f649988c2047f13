// Package orderrepo persists the Order aggregate and its append-only
// audit events, mapping between domain types and database rows.
package orderrepo

import (
	"encoding/json"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the database row for an order. Monetary fields and line
// items are written once at creation and never updated.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderNumber  string     `gorm:"size:16;uniqueIndex"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index"`
	RestaurantID uuid.UUID  `gorm:"type:uuid;index"`
	CourierID    *uuid.UUID `gorm:"type:uuid;index"`

	Status        string `gorm:"size:16;index"`
	PaymentStatus string `gorm:"size:16"`

	SubtotalCents    int64
	TaxCents         int64
	DeliveryFeeCents int64
	TipCents         int64
	TotalCents       int64

	DeliveryAddress     string
	SpecialInstructions string

	LineItems []LineItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName maps the DTO to the "orders" table.
func (OrderDTO) TableName() string {
	return "orders"
}

// LineItemDTO is one order position row.
type LineItemDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index"`
	Name           string
	Quantity       int
	UnitPriceCents int64
}

// TableName maps the DTO to the "order_line_items" table.
func (LineItemDTO) TableName() string {
	return "order_line_items"
}

// OrderEventDTO is one immutable audit row. Metadata is stored as a JSON
// document.
type OrderEventDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	Status    string    `gorm:"size:16"`
	Message   string
	Metadata  string `gorm:"type:text"`
	CreatedAt time.Time
}

// TableName maps the DTO to the "order_events" table.
func (OrderEventDTO) TableName() string {
	return "order_events"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.CourierID(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	items := make([]LineItemDTO, 0, len(aggregate.LineItems()))
	for _, li := range aggregate.LineItems() {
		items = append(items, LineItemDTO{
			OrderID:        aggregate.ID().Bytes(),
			Name:           li.Name(),
			Quantity:       li.Quantity(),
			UnitPriceCents: li.UnitPriceCents(),
		})
	}

	return OrderDTO{
		ID:                  aggregate.ID().Bytes(),
		OrderNumber:         aggregate.OrderNumber(),
		CustomerID:          aggregate.CustomerID().Bytes(),
		RestaurantID:        aggregate.RestaurantID().Bytes(),
		CourierID:           courierID,
		Status:              aggregate.Status().String(),
		PaymentStatus:       aggregate.PaymentStatus().String(),
		SubtotalCents:       aggregate.SubtotalCents(),
		TaxCents:            aggregate.TaxCents(),
		DeliveryFeeCents:    aggregate.DeliveryFeeCents(),
		TipCents:            aggregate.TipCents(),
		TotalCents:          aggregate.TotalCents(),
		DeliveryAddress:     aggregate.DeliveryAddress(),
		SpecialInstructions: aggregate.SpecialInstructions(),
		LineItems:           items,
		CreatedAt:           aggregate.CreatedAt(),
		UpdatedAt:           aggregate.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := order.PaymentStatusFromString(dto.PaymentStatus)
	if err != nil {
		return nil, err
	}

	items := make([]order.LineItem, 0, len(dto.LineItems))
	for _, li := range dto.LineItems {
		item, liErr := order.NewLineItem(li.Name, li.Quantity, li.UnitPriceCents)
		if liErr != nil {
			return nil, liErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id, dto.OrderNumber, customerID, restaurantID, courierID,
		status, paymentStatus, items,
		dto.SubtotalCents, dto.TaxCents, dto.DeliveryFeeCents, dto.TipCents, dto.TotalCents,
		dto.DeliveryAddress, dto.SpecialInstructions,
		dto.CreatedAt, dto.UpdatedAt,
	)
}

func eventFromDomain(event *order.Event) (OrderEventDTO, error) {
	metadata := ""
	if len(event.Metadata()) > 0 {
		raw, err := json.Marshal(event.Metadata())
		if err != nil {
			return OrderEventDTO{}, err
		}
		metadata = string(raw)
	}

	return OrderEventDTO{
		ID:        event.ID().Bytes(),
		OrderID:   event.OrderID().Bytes(),
		Status:    event.Status().String(),
		Message:   event.Message(),
		Metadata:  metadata,
		CreatedAt: event.CreatedAt(),
	}, nil
}

func eventToDomain(dto OrderEventDTO) (*order.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if dto.Metadata != "" {
		if err = json.Unmarshal([]byte(dto.Metadata), &metadata); err != nil {
			return nil, err
		}
	}

	return order.RestoreEvent(id, orderID, status, dto.Message, metadata, dto.CreatedAt)
}
