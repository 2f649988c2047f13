package queries

import (
	"context"
	"strings"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// TopicAccessChecker answers whether a user may watch an entity stream.
// The realtime gateway consults it before honoring a subscribe frame, so
// one tenant can never attach to another tenant's order or delivery
// topic. Decisions come from the same rows the REST reads use: the
// customer, restaurant, or courier linked to the entity.
type TopicAccessChecker struct {
	db *gorm.DB
}

// NewTopicAccessChecker creates a checker over the read database.
func NewTopicAccessChecker(db *gorm.DB) TopicAccessChecker {
	return TopicAccessChecker{db: db}
}

// CanSubscribe reports whether userID acting as role may watch topic.
// Unknown topic shapes and malformed ids are denied, not errors.
func (h TopicAccessChecker) CanSubscribe(
	ctx context.Context, userID kernel.UUID, role access.Role, topic string,
) (bool, error) {
	if role == access.RoleSystem {
		return true, nil
	}

	if raw, ok := strings.CutPrefix(topic, "order:"); ok {
		orderID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return false, nil
		}
		return h.canWatchOrder(ctx, userID, role, orderID)
	}
	if raw, ok := strings.CutPrefix(topic, "delivery:"); ok {
		deliveryID, err := kernel.UUIDFromString(raw)
		if err != nil {
			return false, nil
		}
		return h.canWatchDelivery(ctx, userID, role, deliveryID)
	}
	return false, nil
}

func (h TopicAccessChecker) canWatchOrder(
	ctx context.Context, userID kernel.UUID, role access.Role, orderID kernel.UUID,
) (bool, error) {
	column, ok := orderPartyColumn(role)
	if !ok {
		return false, nil
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM orders
		WHERE id = ? AND `+column+` = ?
	`, orderID.Bytes(), userID.Bytes()).Row()

	var matches int
	if err := row.Scan(&matches); err != nil {
		return false, err
	}
	return matches > 0, nil
}

func (h TopicAccessChecker) canWatchDelivery(
	ctx context.Context, userID kernel.UUID, role access.Role, deliveryID kernel.UUID,
) (bool, error) {
	if role == access.RoleCourier {
		row := h.db.WithContext(ctx).Raw(`
			SELECT count(*)
			FROM deliveries
			WHERE id = ? AND courier_id = ?
		`, deliveryID.Bytes(), userID.Bytes()).Row()

		var matches int
		if err := row.Scan(&matches); err != nil {
			return false, err
		}
		return matches > 0, nil
	}

	column, ok := orderPartyColumn(role)
	if !ok {
		return false, nil
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT count(*)
		FROM deliveries d
		JOIN orders o ON o.id = d.order_id
		WHERE d.id = ? AND o.`+column+` = ?
	`, deliveryID.Bytes(), userID.Bytes()).Row()

	var matches int
	if err := row.Scan(&matches); err != nil {
		return false, err
	}
	return matches > 0, nil
}

// orderPartyColumn maps a client role to the orders column naming it.
func orderPartyColumn(role access.Role) (string, bool) {
	switch role {
	case access.RoleCustomer:
		return "customer_id", true
	case access.RoleRestaurant:
		return "restaurant_id", true
	case access.RoleCourier:
		return "courier_id", true
	default:
		return "", false
	}
}
