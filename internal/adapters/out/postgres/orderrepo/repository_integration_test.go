package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"orderflow/internal/adapters/out/postgres/deliveryrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type GormOrderRepositoryTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *GormOrderRepositoryTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.LineItemDTO{}, &orderrepo.OrderEventDTO{},
		&deliveryrepo.DeliveryDTO{},
	)
	suite.Require().NoError(err)

	suite.repo = orderrepo.NewGormOrderRepository(db)
}

func (suite *GormOrderRepositoryTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *GormOrderRepositoryTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_line_items, order_events, deliveries CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *GormOrderRepositoryTestSuite) newOrder() *order.Order {
	item, err := order.NewLineItem("Margherita", 1, 1499)
	suite.Require().NoError(err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]order.LineItem{item}, "1 Main St", "leave at door", 200, time.Now(),
	)
	suite.Require().NoError(err)
	return o
}

func (suite *GormOrderRepositoryTestSuite) TestAddAndGet_RoundTripsAggregate() {
	ctx := context.Background()
	o := suite.newOrder()

	err := suite.repo.Add(ctx, o)
	suite.Require().NoError(err)

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.True(loaded.IsEqual(o))
	suite.Equal(o.OrderNumber(), loaded.OrderNumber())
	suite.Equal(order.StatusPending, loaded.Status())
	suite.Equal(order.PaymentPending, loaded.PaymentStatus())
	suite.Equal(o.TotalCents(), loaded.TotalCents())
	suite.Len(loaded.LineItems(), 1)
	suite.Equal("Margherita", loaded.LineItems()[0].Name())
}

func (suite *GormOrderRepositoryTestSuite) TestGet_UnknownID_ReturnsObjectNotFound() {
	_, err := suite.repo.Get(context.Background(), kernel.NewUUID())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GormOrderRepositoryTestSuite) TestUpdate_GuardedOnExpectedStatus() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.Require().NoError(suite.repo.Add(ctx, o))

	suite.Require().NoError(o.TransitionTo(order.StatusConfirmed, time.Now()))
	err := suite.repo.Update(ctx, o, order.StatusPending)
	suite.Require().NoError(err)

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, loaded.Status())
}

func (suite *GormOrderRepositoryTestSuite) TestUpdate_StaleExpectedStatus_ReturnsConflict() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.Require().NoError(suite.repo.Add(ctx, o))

	suite.Require().NoError(o.TransitionTo(order.StatusConfirmed, time.Now()))
	suite.Require().NoError(suite.repo.Update(ctx, o, order.StatusPending))

	// A second writer still believing the order is PENDING must lose.
	suite.Require().NoError(o.TransitionTo(order.StatusPreparing, time.Now()))
	err := suite.repo.Update(ctx, o, order.StatusPending)
	suite.Require().ErrorIs(err, errs.ErrConflict)

	loaded, err := suite.repo.Get(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Equal(order.StatusConfirmed, loaded.Status())
}

func (suite *GormOrderRepositoryTestSuite) TestAppendEvent_ListEvents_PreservesOrder() {
	ctx := context.Background()
	o := suite.newOrder()
	suite.Require().NoError(suite.repo.Add(ctx, o))

	base := time.Now()
	statuses := []order.Status{order.StatusPending, order.StatusConfirmed, order.StatusPreparing}
	for i, s := range statuses {
		event, err := order.NewEvent(o.ID(), s, "step", map[string]string{"actor": "test"}, base.Add(time.Duration(i)*time.Second))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repo.AppendEvent(ctx, event))
	}

	events, err := suite.repo.ListEvents(ctx, o.ID())
	suite.Require().NoError(err)
	suite.Require().Len(events, 3)
	for i, s := range statuses {
		suite.Equal(s, events[i].Status())
		suite.Equal("test", events[i].Metadata()["actor"])
	}
}

func (suite *GormOrderRepositoryTestSuite) TestGetFirstReadyUnassigned_PicksOldestReady() {
	ctx := context.Background()

	pending := suite.newOrder()
	suite.Require().NoError(suite.repo.Add(ctx, pending))

	readyOld := suite.newOrder()
	suite.walkToReady(readyOld)
	suite.Require().NoError(suite.repo.Add(ctx, readyOld))

	readyNew := suite.newOrder()
	suite.walkToReady(readyNew)
	suite.Require().NoError(suite.repo.Add(ctx, readyNew))
	// Push the second one later.
	err := suite.db.Exec("UPDATE orders SET created_at = created_at + interval '1 hour' WHERE id = ?",
		readyNew.ID().Bytes()).Error
	suite.Require().NoError(err)

	found, err := suite.repo.GetFirstReadyUnassigned(ctx)
	suite.Require().NoError(err)
	suite.True(found.IsEqual(readyOld))
}

func (suite *GormOrderRepositoryTestSuite) TestGetFirstReadyUnassigned_Empty_ReturnsObjectNotFound() {
	_, err := suite.repo.GetFirstReadyUnassigned(context.Background())
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *GormOrderRepositoryTestSuite) walkToReady(o *order.Order) {
	suite.Require().NoError(o.TransitionTo(order.StatusConfirmed, time.Now()))
	suite.Require().NoError(o.TransitionTo(order.StatusPreparing, time.Now()))
	suite.Require().NoError(o.TransitionTo(order.StatusReady, time.Now()))
}

func TestGormOrderRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(GormOrderRepositoryTestSuite))
}
