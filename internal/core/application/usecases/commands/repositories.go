// Package commands contains the write operations of the order lifecycle
// engine. Every handler follows the same shape: validate the command,
// open a unit of work, apply domain mutations, persist them with
// conditional updates, commit, and only then publish to the event bus.
// A failed publish never rolls back or blocks the committed transition.
package commands

import (
	"context"

	"orderflow/internal/core/ports"
)

// Unit of Work interfaces consumed by the command handlers. Narrow
// aggregations keep each handler honest about which repositories it may
// touch inside one transaction.
type (
	// TxManager handles the database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// DeliveryRepoFactory provides the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// CourierRepoFactory provides the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// OrderUoW covers commands that only touch the order aggregate.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates order-only unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderDeliveryUoW covers commands that read delivery state while
	// mutating orders (cancellation) or vice versa.
	OrderDeliveryUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
	}

	// OrderDeliveryUoWFactory creates order+delivery unit of work instances.
	OrderDeliveryUoWFactory interface {
		Create() OrderDeliveryUoW
	}

	// UoW spans all three aggregates, used by the delivery coordination
	// commands that cascade into orders and flip courier availability.
	UoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		CourierRepoFactory
	}

	// UoWFactory creates full unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)
