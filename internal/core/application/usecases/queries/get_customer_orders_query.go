package queries

import (
	"errors"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrGetCustomerOrdersQueryIsNotConstructed = errors.New(
	"GetCustomerOrdersQuery must be created via NewGetCustomerOrdersQuery constructor",
)

// GetCustomerOrdersQuery lists a customer's orders, optionally filtered
// by status, newest first.
type GetCustomerOrdersQuery struct {
	customerID kernel.UUID
	status     *order.Status
	limit      int
	offset     int

	guard guard.ConstructorGuard
}

// NewGetCustomerOrdersQuery creates the query. status may be nil; limit 0
// means the default page size.
func NewGetCustomerOrdersQuery(
	customerID kernel.UUID,
	status *order.Status,
	limit, offset int,
) (GetCustomerOrdersQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerOrdersQuery{}, err
	}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetCustomerOrdersQuery{}, err
		}
	}
	if limit < 0 || limit > maxPageLimit {
		return GetCustomerOrdersQuery{}, errs.NewValueIsInvalidError("limit")
	}
	if offset < 0 {
		return GetCustomerOrdersQuery{}, errs.NewValueIsInvalidError("offset")
	}
	if limit == 0 {
		limit = defaultPageLimit
	}

	return GetCustomerOrdersQuery{
		customerID: customerID,
		status:     status,
		limit:      limit,
		offset:     offset,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerOrdersQueryIsNotConstructed)
}

func (q GetCustomerOrdersQuery) CustomerID() kernel.UUID { return q.customerID }
func (q GetCustomerOrdersQuery) Status() *order.Status   { return q.status }
func (q GetCustomerOrdersQuery) Limit() int              { return q.limit }
func (q GetCustomerOrdersQuery) Offset() int             { return q.offset }
