// Package http exposes the command and query surface over REST. It
// validates credentials and shapes requests; every business rule stays
// in the application layer.
package http

import (
	"net/http"
	"strconv"
	"time"

	"orderflow/internal/core/application/access"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/authtoken"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles the application entry points the server dispatches to.
type Handlers struct {
	CreateOrder           commands.CreateOrderCommandHandler
	TransitionOrder       commands.TransitionOrderCommandHandler
	CancelOrder           commands.CancelOrderCommandHandler
	AssignCourier         commands.AssignCourierCommandHandler
	AcceptDelivery        commands.AcceptDeliveryCommandHandler
	PickupOrder           commands.PickupOrderCommandHandler
	DeliverOrder          commands.DeliverOrderCommandHandler
	UpdateCourierLocation commands.UpdateCourierLocationCommandHandler
	ReconcilePayment      commands.ReconcilePaymentCommandHandler

	GetOrder              queries.GetOrderQueryHandler
	GetCustomerOrders     queries.GetCustomerOrdersQueryHandler
	GetMerchantOrders     queries.GetMerchantOrdersQueryHandler
	GetCourierAssignments queries.GetCourierAssignmentsQueryHandler
}

// Server coordinates between HTTP requests and application use cases.
type Server struct {
	handlers      Handlers
	jwtSecret     []byte
	webhookSecret []byte
}

// NewServer creates the HTTP server.
func NewServer(handlers Handlers, jwtSecret, webhookSecret []byte) *Server {
	return &Server{
		handlers:      handlers,
		jwtSecret:     jwtSecret,
		webhookSecret: webhookSecret,
	}
}

// RegisterRoutes mounts all endpoints on the echo instance. The payment
// webhook authenticates by signature, not bearer token, so it stays
// outside the authenticated group.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/webhooks/payment", s.PaymentWebhook)

	api := e.Group("/api/v1", JWTAuth(s.jwtSecret))
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.GetCustomerOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/status", s.TransitionOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/deliveries/assign", s.AssignCourier)
	api.POST("/deliveries/:id/accept", s.AcceptDelivery)
	api.POST("/deliveries/:id/pickup", s.PickupOrder)
	api.POST("/deliveries/:id/deliver", s.DeliverOrder)
	api.POST("/couriers/location", s.UpdateCourierLocation)
	api.GET("/merchant/orders", s.GetMerchantOrders)
	api.GET("/courier/assignments", s.GetCourierAssignments)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// LineItemRequest is one requested order position.
type LineItemRequest struct {
	Name           string `json:"name"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
}

// CreateOrderRequest is the body of POST /api/v1/orders. The customer is
// the authenticated principal.
type CreateOrderRequest struct {
	RestaurantID        string            `json:"restaurantId"`
	LineItems           []LineItemRequest `json:"lineItems"`
	DeliveryAddress     string            `json:"deliveryAddress"`
	SpecialInstructions string            `json:"specialInstructions"`
	TipCents            int64             `json:"tipCents"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionCreateOrder); err != nil {
		return respondError(ctx, err)
	}

	var req CreateOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	restaurantID, err := kernel.UUIDFromString(req.RestaurantID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("restaurantId", err))
	}

	lineItems := make([]commands.LineItemInput, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		lineItems = append(lineItems, commands.LineItemInput{
			Name:           item.Name,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
		})
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID, principal.UserID, restaurantID,
		lineItems, req.DeliveryAddress, req.SpecialInstructions, req.TipCents,
	)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"id": orderID.String()})
}

// TransitionOrderRequest is the body of POST /api/v1/orders/:id/status.
type TransitionOrderRequest struct {
	Status string `json:"status"`
}

// TransitionOrder handles POST /api/v1/orders/:id/status.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req TransitionOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, principal.Role)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.TransitionOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrderRequest is the body of POST /api/v1/orders/:id/cancel.
type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, principal.Role, req.Reason)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// AssignCourierRequest is the body of POST /api/v1/deliveries/assign.
// Reserved for internal credentials; the dispatch job is the usual caller.
type AssignCourierRequest struct {
	OrderID   string `json:"orderId"`
	CourierID string `json:"courierId"`
}

// AssignCourier handles POST /api/v1/deliveries/assign.
func (s *Server) AssignCourier(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionAssignCourier); err != nil {
		return respondError(ctx, err)
	}

	var req AssignCourierRequest
	if err = ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("orderId", err))
	}
	courierID, err := kernel.UUIDFromString(req.CourierID)
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("courierId", err))
	}

	deliveryID := kernel.NewUUID()
	cmd, err := commands.NewAssignCourierCommand(deliveryID, orderID, courierID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.AssignCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"deliveryId": deliveryID.String()})
}

// AcceptDelivery handles POST /api/v1/deliveries/:id/accept.
func (s *Server) AcceptDelivery(ctx echo.Context) error {
	principal, deliveryID, err := s.courierDeliveryRequest(ctx, access.ActionAcceptDelivery)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewAcceptDeliveryCommand(deliveryID, principal.UserID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.AcceptDelivery.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PickupOrder handles POST /api/v1/deliveries/:id/pickup.
func (s *Server) PickupOrder(ctx echo.Context) error {
	principal, deliveryID, err := s.courierDeliveryRequest(ctx, access.ActionPickupOrder)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewPickupOrderCommand(deliveryID, principal.UserID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.PickupOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// DeliverOrder handles POST /api/v1/deliveries/:id/deliver.
func (s *Server) DeliverOrder(ctx echo.Context) error {
	principal, deliveryID, err := s.courierDeliveryRequest(ctx, access.ActionDeliverOrder)
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewDeliverOrderCommand(deliveryID, principal.UserID)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.DeliverOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) courierDeliveryRequest(
	ctx echo.Context,
	action access.Action,
) (principal authtoken.Principal, deliveryID kernel.UUID, err error) {
	principal, err = currentPrincipal(ctx)
	if err != nil {
		return principal, deliveryID, err
	}
	if err = access.Require(principal.Role, action); err != nil {
		return principal, deliveryID, err
	}

	deliveryID, err = kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return principal, deliveryID, errs.NewValueIsInvalidErrorWithCause("id", err)
	}

	return principal, deliveryID, nil
}

// UpdateCourierLocationRequest is the body of POST /api/v1/couriers/location.
type UpdateCourierLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// UpdateCourierLocation handles POST /api/v1/couriers/location. The
// observation timestamp is assigned server-side.
func (s *Server) UpdateCourierLocation(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionUpdateLocation); err != nil {
		return respondError(ctx, err)
	}

	var req UpdateCourierLocationRequest
	if err = ctx.Bind(&req); err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("request body", err))
	}

	location, err := kernel.NewGeoPoint(req.Latitude, req.Longitude, time.Now())
	if err != nil {
		return respondError(ctx, err)
	}

	cmd, err := commands.NewUpdateCourierLocationCommand(principal.UserID, location)
	if err != nil {
		return respondError(ctx, err)
	}

	if err = s.handlers.UpdateCourierLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return respondError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionViewOrder); err != nil {
		return respondError(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return respondError(ctx, errs.NewValueIsInvalidErrorWithCause("id", err))
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return respondError(ctx, err)
	}

	response, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCustomerOrders handles GET /api/v1/orders for the authenticated
// customer.
func (s *Server) GetCustomerOrders(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionViewOrder); err != nil {
		return respondError(ctx, err)
	}

	status, limit, offset, err := listParams(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetCustomerOrdersQuery(principal.UserID, status, limit, offset)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.handlers.GetCustomerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetMerchantOrders handles GET /api/v1/merchant/orders for the
// authenticated restaurant.
func (s *Server) GetMerchantOrders(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionViewMerchant); err != nil {
		return respondError(ctx, err)
	}

	status, limit, offset, err := listParams(ctx)
	if err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetMerchantOrdersQuery(principal.UserID, status, limit, offset)
	if err != nil {
		return respondError(ctx, err)
	}

	orders, err := s.handlers.GetMerchantOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetCourierAssignments handles GET /api/v1/courier/assignments for the
// authenticated courier.
func (s *Server) GetCourierAssignments(ctx echo.Context) error {
	principal, err := currentPrincipal(ctx)
	if err != nil {
		return respondError(ctx, err)
	}
	if err = access.Require(principal.Role, access.ActionViewAssignments); err != nil {
		return respondError(ctx, err)
	}

	query, err := queries.NewGetCourierAssignmentsQuery(principal.UserID)
	if err != nil {
		return respondError(ctx, err)
	}

	assignments, err := s.handlers.GetCourierAssignments.Handle(ctx.Request().Context(), query)
	if err != nil {
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, assignments)
}

func listParams(ctx echo.Context) (status *order.Status, limit, offset int, err error) {
	if raw := ctx.QueryParam("status"); raw != "" {
		parsed, parseErr := order.StatusFromString(raw)
		if parseErr != nil {
			return nil, 0, 0, parseErr
		}
		status = &parsed
	}

	limit, err = intQueryParam(ctx, "limit")
	if err != nil {
		return nil, 0, 0, err
	}
	offset, err = intQueryParam(ctx, "offset")
	if err != nil {
		return nil, 0, 0, err
	}

	return status, limit, offset, nil
}

func intQueryParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return value, nil
}
