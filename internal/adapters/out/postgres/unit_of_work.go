// Package postgres provides the GORM-based Unit of Work. Each command
// handler gets a fresh instance; repository calls between Begin and
// Commit share one database transaction, which is what makes the
// conditional updates and the one-event-per-transition rule atomic.
package postgres

import (
	"context"

	"orderflow/internal/adapters/out/postgres/courierrepo"
	"orderflow/internal/adapters/out/postgres/deliveryrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/ports"

	"gorm.io/gorm"
)

// GormUnitOfWork coordinates one database transaction across the order,
// delivery, and courier repositories.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin starts the transaction. Calling Begin twice is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes the transaction.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards the transaction. Handlers call it in a defer; after
// a successful Commit it returns gorm.ErrInvalidTransaction, which the
// defer ignores.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// OrderRepository returns the order repository bound to the current
// transaction.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn())
}

// DeliveryRepository returns the delivery repository bound to the
// current transaction.
func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn())
}

// CourierRepository returns the courier repository bound to the current
// transaction.
func (uow *GormUnitOfWork) CourierRepository() ports.CourierRepository {
	return courierrepo.NewGormCourierRepository(uow.conn())
}

// GormUnitOfWorkFactory creates isolated unit of work instances over one
// shared connection pool.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates the factory.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a fresh unit of work.
func (f *GormUnitOfWorkFactory) Create() *GormUnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// Typed factory views. The command handlers declare narrow unit-of-work
// interfaces; these adapters give each handler exactly the view it asks
// for without separate implementations.
type (
	// OrderUnitOfWorkFactory serves handlers that only touch orders.
	OrderUnitOfWorkFactory struct{ inner *GormUnitOfWorkFactory }

	// OrderDeliveryUnitOfWorkFactory serves handlers spanning orders and
	// deliveries.
	OrderDeliveryUnitOfWorkFactory struct{ inner *GormUnitOfWorkFactory }

	// FullUnitOfWorkFactory serves handlers spanning all aggregates.
	FullUnitOfWorkFactory struct{ inner *GormUnitOfWorkFactory }
)

// NewOrderUnitOfWorkFactory creates the order-only factory view.
func NewOrderUnitOfWorkFactory(inner *GormUnitOfWorkFactory) OrderUnitOfWorkFactory {
	return OrderUnitOfWorkFactory{inner: inner}
}

// Create produces an order-scoped unit of work.
func (f OrderUnitOfWorkFactory) Create() commands.OrderUoW {
	return f.inner.Create()
}

// NewOrderDeliveryUnitOfWorkFactory creates the order+delivery factory view.
func NewOrderDeliveryUnitOfWorkFactory(inner *GormUnitOfWorkFactory) OrderDeliveryUnitOfWorkFactory {
	return OrderDeliveryUnitOfWorkFactory{inner: inner}
}

// Create produces an order+delivery scoped unit of work.
func (f OrderDeliveryUnitOfWorkFactory) Create() commands.OrderDeliveryUoW {
	return f.inner.Create()
}

// NewFullUnitOfWorkFactory creates the all-aggregates factory view.
func NewFullUnitOfWorkFactory(inner *GormUnitOfWorkFactory) FullUnitOfWorkFactory {
	return FullUnitOfWorkFactory{inner: inner}
}

// Create produces a unit of work spanning all aggregates.
func (f FullUnitOfWorkFactory) Create() commands.UoW {
	return f.inner.Create()
}
