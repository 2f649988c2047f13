// Package access centralizes authorization: a single (role, action)
// lookup evaluated once at the command boundary instead of inline role
// branching inside every handler.
package access

import (
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

// Role is an authenticated actor class carried in the bearer credential.
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	// RoleSystem is internal: the payment reconciler and scheduled jobs.
	// It is never minted into client credentials.
	RoleSystem Role = "system"
)

// Action is one command the system exposes.
type Action string

const (
	ActionCreateOrder     Action = "createOrder"
	ActionConfirmOrder    Action = "confirmOrder"
	ActionPrepareOrder    Action = "prepareOrder"
	ActionReadyOrder      Action = "readyOrder"
	ActionCancelOrder     Action = "cancelOrder"
	ActionAssignCourier   Action = "assignCourier"
	ActionAcceptDelivery  Action = "acceptDelivery"
	ActionPickupOrder     Action = "pickupOrder"
	ActionDeliverOrder    Action = "deliverOrder"
	ActionUpdateLocation  Action = "updateCourierLocation"
	ActionViewOrder       Action = "viewOrder"
	ActionViewMerchant    Action = "viewMerchantOrders"
	ActionViewAssignments Action = "viewCourierAssignments"
)

// policy is the authoritative permission table. PICKED_UP and DELIVERED
// order edges deliberately have no direct entry: couriers drive them only
// through the delivery handlers, which cascade into the order lifecycle
// under RoleSystem.
var policy = map[Role]map[Action]bool{
	RoleCustomer: {
		ActionCreateOrder: true,
		ActionCancelOrder: true,
		ActionViewOrder:   true,
	},
	RoleRestaurant: {
		ActionPrepareOrder: true,
		ActionReadyOrder:   true,
		ActionCancelOrder:  true,
		ActionViewOrder:    true,
		ActionViewMerchant: true,
	},
	RoleCourier: {
		ActionAcceptDelivery:  true,
		ActionPickupOrder:     true,
		ActionDeliverOrder:    true,
		ActionUpdateLocation:  true,
		ActionViewOrder:       true,
		ActionViewAssignments: true,
	},
	RoleSystem: {
		ActionConfirmOrder:  true,
		ActionCancelOrder:   true,
		ActionAssignCourier: true,
		ActionPrepareOrder:  true,
		ActionReadyOrder:    true,
		ActionViewOrder:     true,
	},
}

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	_, ok := policy[r]
	return ok
}

// Allowed reports whether role may perform action.
func Allowed(role Role, action Action) bool {
	return policy[role][action]
}

// Require returns an AuthorizationError unless role may perform action.
func Require(role Role, action Action) error {
	if !Allowed(role, action) {
		return errs.NewAuthorizationError(string(role), string(action))
	}
	return nil
}

// ActionForOrderTransition maps a target order status to the action that
// drives it, so transition requests go through the same policy table.
func ActionForOrderTransition(target order.Status) (Action, bool) {
	switch target {
	case order.StatusConfirmed:
		return ActionConfirmOrder, true
	case order.StatusPreparing:
		return ActionPrepareOrder, true
	case order.StatusReady:
		return ActionReadyOrder, true
	case order.StatusCancelled:
		return ActionCancelOrder, true
	default:
		// PICKED_UP and DELIVERED are cascade-only.
		return "", false
	}
}
