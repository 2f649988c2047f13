package cmd

import (
	"log/slog"

	adapterhttp "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/in/ws"
	"orderflow/internal/adapters/out/busadapter"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/eventbus"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into the application handlers. All
// handlers share one unit-of-work factory, one event bus, and one
// publisher.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	bus        *eventbus.Bus
	publisher  *busadapter.BusEventPublisher
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	bus := eventbus.NewBus(logger)
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		bus:        bus,
		publisher:  busadapter.NewBusEventPublisher(bus),
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return postgres.NewOrderUnitOfWorkFactory(c.uowFactory)
}

func (c *CompositionRoot) orderDeliveryUoWFactory() commands.OrderDeliveryUoWFactory {
	return postgres.NewOrderDeliveryUnitOfWorkFactory(c.uowFactory)
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return postgres.NewFullUnitOfWorkFactory(c.uowFactory)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderDeliveryUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateAcceptDeliveryCommandHandler() commands.AcceptDeliveryCommandHandler {
	return commands.NewAcceptDeliveryCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreatePickupOrderCommandHandler() commands.PickupOrderCommandHandler {
	return commands.NewPickupOrderCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateDeliverOrderCommandHandler() commands.DeliverOrderCommandHandler {
	return commands.NewDeliverOrderCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateUpdateCourierLocationCommandHandler() commands.UpdateCourierLocationCommandHandler {
	return commands.NewUpdateCourierLocationCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateReconcilePaymentCommandHandler() commands.ReconcilePaymentCommandHandler {
	return commands.NewReconcilePaymentCommandHandler(c.orderUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateDispatchOrderCommandHandler() commands.DispatchOrderCommandHandler {
	return commands.NewDispatchOrderCommandHandler(c.fullUoWFactory(), services.NewCourierPicker(), c.publisher)
}

func (c *CompositionRoot) CreateSweepStaleLocationsCommandHandler() commands.SweepStaleLocationsCommandHandler {
	return commands.NewSweepStaleLocationsCommandHandler(c.fullUoWFactory(), c.publisher)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetMerchantOrdersQueryHandler() queries.GetMerchantOrdersQueryHandler {
	return queries.NewGetMerchantOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCourierAssignmentsQueryHandler() queries.GetCourierAssignmentsQueryHandler {
	return queries.NewGetCourierAssignmentsQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the REST surface.
func (c *CompositionRoot) CreateHTTPServer() *adapterhttp.Server {
	handlers := adapterhttp.Handlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		TransitionOrder:       c.CreateTransitionOrderCommandHandler(),
		CancelOrder:           c.CreateCancelOrderCommandHandler(),
		AssignCourier:         c.CreateAssignCourierCommandHandler(),
		AcceptDelivery:        c.CreateAcceptDeliveryCommandHandler(),
		PickupOrder:           c.CreatePickupOrderCommandHandler(),
		DeliverOrder:          c.CreateDeliverOrderCommandHandler(),
		UpdateCourierLocation: c.CreateUpdateCourierLocationCommandHandler(),
		ReconcilePayment:      c.CreateReconcilePaymentCommandHandler(),

		GetOrder:              c.CreateGetOrderQueryHandler(),
		GetCustomerOrders:     c.CreateGetCustomerOrdersQueryHandler(),
		GetMerchantOrders:     c.CreateGetMerchantOrdersQueryHandler(),
		GetCourierAssignments: c.CreateGetCourierAssignmentsQueryHandler(),
	}

	return adapterhttp.NewServer(handlers,
		[]byte(c.config.JWTSecret), []byte(c.config.PaymentWebhookSecret))
}

// CreateRealtimeGateway assembles the websocket surface.
func (c *CompositionRoot) CreateRealtimeGateway() *ws.Gateway {
	return ws.NewGateway(c.bus, c.publisher,
		queries.NewTopicAccessChecker(c.gormDB), []byte(c.config.JWTSecret), c.logger)
}

// CreateJobManager assembles the scheduled jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateDispatchOrderCommandHandler(),
		c.CreateSweepStaleLocationsCommandHandler(),
		c.logger,
	)
}
