package queries

import (
	"errors"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGetMerchantOrdersQueryIsNotConstructed = errors.New(
	"GetMerchantOrdersQuery must be created via NewGetMerchantOrdersQuery constructor",
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

// GetMerchantOrdersQuery lists a restaurant's orders, optionally filtered
// by status, newest first.
type GetMerchantOrdersQuery struct {
	restaurantID kernel.UUID
	status       *order.Status
	limit        int
	offset       int

	guard guard.ConstructorGuard
}

// NewGetMerchantOrdersQuery creates the query. status may be nil for all
// statuses. limit 0 means the default page size.
func NewGetMerchantOrdersQuery(
	restaurantID kernel.UUID,
	status *order.Status,
	limit, offset int,
) (GetMerchantOrdersQuery, error) {
	if err := restaurantID.Validate(); err != nil {
		return GetMerchantOrdersQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetMerchantOrdersQuery{}, err
		}
	}
	if limit < 0 || limit > maxPageLimit {
		return GetMerchantOrdersQuery{}, errs.NewValueIsInvalidError("limit")
	}
	if offset < 0 {
		return GetMerchantOrdersQuery{}, errs.NewValueIsInvalidError("offset")
	}
	if limit == 0 {
		limit = defaultPageLimit
	}

	return GetMerchantOrdersQuery{
		restaurantID: restaurantID,
		status:       status,
		limit:        limit,
		offset:       offset,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetMerchantOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetMerchantOrdersQueryIsNotConstructed)
}

func (q GetMerchantOrdersQuery) RestaurantID() kernel.UUID { return q.restaurantID }
func (q GetMerchantOrdersQuery) Status() *order.Status     { return q.status }
func (q GetMerchantOrdersQuery) Limit() int                { return q.limit }
func (q GetMerchantOrdersQuery) Offset() int               { return q.offset }

// OrderSummaryView is the list-row projection of an order.
type OrderSummaryView struct {
	ID            kernel.UUID `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	CustomerID    kernel.UUID `json:"customerId"`
	Status        string      `json:"status"`
	PaymentStatus string      `json:"paymentStatus"`
	TotalCents    int64       `json:"totalCents"`
	CreatedAt     time.Time   `json:"createdAt"`
}
