// Package http exposes the transport service over the JSON API described by
// api/openapi.yml. Request and response types come from the generated
// servers package.
//
// Entity references in requests and responses use the "<kind>:<uuid>" form,
// for example "building:5f1c2a40-0b8e-4a3b-8a8e-1b2c3d4e5f60".
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"logistics/internal/core/application/usecases/commands"
	"logistics/internal/core/application/usecases/queries"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/services"
	"logistics/internal/generated/servers"
	"logistics/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	echoSwagger "github.com/swaggo/echo-swagger"
)

var errRequestInvalid = errors.New("request is invalid")

var _ servers.ServerInterface = (*Server)(nil)

// Handlers groups the use cases the API serves. SavedSlots and Directory are
// optional; their endpoints answer 501 without them.
type Handlers struct {
	AcceptOrder     commands.AcceptDeliveryOrderCommandHandler
	RefreshOrders   commands.RefreshOrdersCommandHandler
	ManualTransport commands.ManualTransportCommandHandler
	AddRoute        commands.AddRouteCommandHandler
	RemoveRoute     commands.RemoveRouteCommandHandler
	DestroyEntity   commands.DestroyEntityCommandHandler
	FailJob         commands.FailJobCommandHandler
	RoadsChanged    commands.RoadNetworkChangedCommandHandler
	Tick            *commands.TickCommandHandler
	Snapshots       commands.SnapshotCommandHandler

	Jobs       queries.GetJobsQueryHandler
	Orders     queries.GetOrdersQueryHandler
	Carriers   queries.GetCarriersQueryHandler
	Routes     queries.GetRoutesQueryHandler
	Supply     queries.GetSupplyQueryHandler
	SavedSlots *queries.GetSavedSlotsQueryHandler

	Directory func() []servers.Building
}

// Server implements the generated ServerInterface on top of the command and
// query handlers.
type Server struct {
	h        Handlers
	gatherer prometheus.Gatherer
	now      func() time.Time
}

// NewServer builds the server. gatherer backs /metrics; nil disables it.
func NewServer(h Handlers, gatherer prometheus.Gatherer) *Server {
	return &Server{h: h, gatherer: gatherer, now: time.Now}
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// NewEcho returns an echo instance serving the API, its Swagger UI under
// /swagger/, /health and /metrics. Requests are validated against the
// embedded OpenAPI document before they reach a handler.
func (s *Server) NewEcho() (*echo.Echo, error) {
	swagger, err := servers.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := registerDocs(swagger); err != nil {
		return nil, err
	}
	validate, err := requestValidator(swagger)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.GET("/health", s.Health)
	if s.gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Use(validate)
	servers.RegisterHandlers(e, s)
	return e, nil
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, healthResponse{Status: "ok", Time: s.now().UTC()})
}

// GetJobs handles GET /api/v1/jobs?status=InTransit.
func (s *Server) GetJobs(ctx echo.Context, params servers.GetJobsParams) error {
	query, err := queries.NewGetJobsQuery(deref(params.Status))
	if err != nil {
		return fail(ctx, err)
	}
	jobs, err := s.h.Jobs.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]servers.Job, 0, len(jobs))
	for _, j := range jobs {
		item, err := toJob(j)
		if err != nil {
			return fail(ctx, err)
		}
		response = append(response, item)
	}
	return ctx.JSON(http.StatusOK, response)
}

// FailJob handles POST /api/v1/jobs/{id}/fail.
func (s *Server) FailJob(ctx echo.Context, id int64) error {
	cmd, err := commands.NewFailJobCommand(job.ID(id))
	if err != nil {
		return fail(ctx, err)
	}
	if err := s.h.FailJob.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetOrders handles GET /api/v1/orders?uncompleted=true.
func (s *Server) GetOrders(ctx echo.Context, params servers.GetOrdersParams) error {
	orders, err := s.h.Orders.Handle(ctx.Request().Context(), queries.NewGetOrdersQuery(deref(params.Uncompleted)))
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]servers.Order, 0, len(orders))
	for _, o := range orders {
		response = append(response, servers.Order{
			Id:           o.ID,
			Resource:     o.Resource,
			ProductName:  o.ProductName,
			Total:        o.Total,
			Remaining:    o.Remaining,
			Reserved:     o.Reserved,
			Outstanding:  o.Outstanding,
			PricePerUnit: o.PricePerUnit,
			Status:       o.Status,
			Accepted:     o.Accepted,
			Destination:  optional(o.Destination),
			JobIds:       o.JobIDs,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// AcceptOrder handles POST /api/v1/orders. A planning failure is not an
// HTTP error: the response carries the reason with a 4xx or 5xx status.
func (s *Server) AcceptOrder(ctx echo.Context) error {
	var req servers.AcceptOrderJSONRequestBody
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err)
	}

	demand, err := toDemand(servers.Demand{
		OrderId:      req.OrderId,
		Resource:     req.Resource,
		ProductName:  req.ProductName,
		Total:        req.Total,
		Remaining:    req.Remaining,
		PricePerUnit: req.PricePerUnit,
		Accepted:     req.Accepted,
		Destination:  req.Destination,
	})
	if err != nil {
		return fail(ctx, err)
	}
	target, err := kernel.ParseEntityRef(req.Target)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewAcceptDeliveryOrderCommand(
		demand.OrderID, demand.Resource, demand.ProductName,
		demand.Total, demand.Remaining, demand.PricePerUnit, target,
	)
	if err != nil {
		return fail(ctx, err)
	}

	result, err := s.h.AcceptOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}

	status := http.StatusCreated
	if !result.Success {
		status = statusForReason(result.Reason)
	}
	return ctx.JSON(status, toPlanResult(result))
}

// RefreshOrders handles PUT /api/v1/orders with the market's demand list.
func (s *Server) RefreshOrders(ctx echo.Context) error {
	var req servers.RefreshOrdersJSONRequestBody
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err)
	}

	demands := make([]deliveryorder.Demand, 0, len(req.Demands))
	for _, d := range req.Demands {
		demand, err := toDemand(d)
		if err != nil {
			return fail(ctx, err)
		}
		demands = append(demands, demand)
	}

	cmd, err := commands.NewRefreshOrdersCommand(demands)
	if err != nil {
		return fail(ctx, err)
	}
	if err := s.h.RefreshOrders.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) GetCarriers(ctx echo.Context) error {
	carriers, err := s.h.Carriers.Handle(ctx.Request().Context(), queries.NewGetCarriersQuery())
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]servers.Carrier, 0, len(carriers))
	for _, c := range carriers {
		item, err := toCarrier(c)
		if err != nil {
			return fail(ctx, err)
		}
		response = append(response, item)
	}
	return ctx.JSON(http.StatusOK, response)
}

// RequestTransport handles POST /api/v1/transports. The carrier leaves on
// the next tick.
func (s *Server) RequestTransport(ctx echo.Context) error {
	var req servers.RequestTransportJSONRequestBody
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err)
	}
	source, err := kernel.ParseEntityRef(req.Source)
	if err != nil {
		return fail(ctx, err)
	}
	target, err := kernel.ParseEntityRef(req.Target)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewManualTransportCommand(source, target, kernel.ResourceID(req.Resource))
	if err != nil {
		return fail(ctx, err)
	}
	if err := s.h.ManualTransport.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusAccepted)
}

func (s *Server) GetRoutes(ctx echo.Context) error {
	routes, err := s.h.Routes.Handle(ctx.Request().Context(), queries.NewGetRoutesQuery())
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]servers.Route, 0, len(routes))
	for _, r := range routes {
		response = append(response, servers.Route{
			Id:          r.ID,
			Supplier:    r.Supplier,
			Consumer:    r.Consumer,
			Resource:    r.Resource,
			Period:      r.Period,
			Capacity:    r.Capacity,
			Accumulator: r.Accumulator,
			InTransit:   r.InTransit,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// AddRoute handles POST /api/v1/routes. A route from an entity onto itself
// is rejected by the route constructor.
func (s *Server) AddRoute(ctx echo.Context) error {
	var req servers.AddRouteJSONRequestBody
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err)
	}
	supplier, err := kernel.ParseEntityRef(req.Supplier)
	if err != nil {
		return fail(ctx, err)
	}
	consumer, err := kernel.ParseEntityRef(req.Consumer)
	if err != nil {
		return fail(ctx, err)
	}

	cmd, err := commands.NewAddRouteCommand(supplier, consumer, kernel.ResourceID(req.Resource), req.Period, req.Capacity)
	if err != nil {
		return fail(ctx, err)
	}
	id, err := s.h.AddRoute.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, servers.RouteCreated{Id: int64(id)})
}

func (s *Server) RemoveRoute(ctx echo.Context, id int64) error {
	cmd, err := commands.NewRemoveRouteCommand(route.ID(id))
	if err != nil {
		return fail(ctx, err)
	}
	if err := s.h.RemoveRoute.Handle(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) GetSupply(ctx echo.Context, resource string) error {
	query, err := queries.NewGetSupplyQuery(resource)
	if err != nil {
		return fail(ctx, err)
	}
	records, err := s.h.Supply.Handle(ctx.Request().Context(), query)
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]servers.SupplyRecord, 0, len(records))
	for _, r := range records {
		response = append(response, servers.SupplyRecord{
			Id:        r.ID,
			Entity:    r.Entity,
			Available: r.Available,
			Reserved:  r.Reserved,
			Free:      r.Free,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

// DestroyEntity handles POST /api/v1/entities/destroy. Every job touching
// the entity fails.
func (s *Server) DestroyEntity(ctx echo.Context) error {
	var req servers.DestroyEntityJSONRequestBody
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err)
	}
	ref, err := kernel.ParseEntityRef(req.Entity)
	if err != nil {
		return fail(ctx, err)
	}
	cmd, err := commands.NewDestroyEntityCommand(ref)
	if err != nil {
		return fail(ctx, err)
	}

	ids, err := s.h.DestroyEntity.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	response := servers.DestroyEntityResult{FailedJobs: make([]int64, 0, len(ids))}
	for _, id := range ids {
		response.FailedJobs = append(response.FailedJobs, int64(id))
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) RoadsChanged(ctx echo.Context) error {
	if err := s.h.RoadsChanged.Handle(ctx.Request().Context(), commands.NewRoadNetworkChangedCommand()); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// Tick handles POST /api/v1/tick, a manual step for paused simulations.
func (s *Server) Tick(ctx echo.Context) error {
	if s.h.Tick == nil {
		return fail(ctx, errs.NewValueIsRequiredError("tick handler"))
	}
	var req servers.TickJSONRequestBody
	if err := bind(ctx, &req); err != nil {
		return fail(ctx, err)
	}
	cmd, err := commands.NewTickCommand(req.Dt)
	if err != nil {
		return fail(ctx, err)
	}
	report, err := s.h.Tick.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.TickReport{
		Arrived:    report.Arrived,
		Dispatched: report.Dispatched,
		Faults:     report.Faults,
	})
}

func (s *Server) ListSnapshots(ctx echo.Context) error {
	slots, err := s.h.Snapshots.Slots(ctx.Request().Context())
	if err != nil {
		return fail(ctx, err)
	}
	if slots == nil {
		slots = []string{}
	}
	return ctx.JSON(http.StatusOK, servers.SlotList{Slots: slots})
}

func (s *Server) SaveSnapshot(ctx echo.Context, slot servers.Slot) error {
	cmd, err := commands.NewSaveSnapshotCommand(slot)
	if err != nil {
		return fail(ctx, err)
	}
	if err := s.h.Snapshots.Save(ctx.Request().Context(), cmd); err != nil {
		return fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (s *Server) LoadSnapshot(ctx echo.Context, slot servers.Slot) error {
	cmd, err := commands.NewLoadSnapshotCommand(slot)
	if err != nil {
		return fail(ctx, err)
	}
	report, err := s.h.Snapshots.Load(ctx.Request().Context(), cmd)
	if err != nil {
		return fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, servers.RestoreReport{
		Slot:           cmd.Slot(),
		Jobs:           report.Jobs,
		Orders:         report.Orders,
		SkippedJobs:    report.SkippedJobs,
		SkippedOrders:  report.SkippedOrders,
		UnresolvedRefs: report.UnresolvedRefs,
	})
}

// GetSavedSlots handles GET /api/v1/snapshots/saved. Only database stores
// keep the per-slot counts.
func (s *Server) GetSavedSlots(ctx echo.Context) error {
	if s.h.SavedSlots == nil {
		return notImplemented(ctx, "saved slot listing needs a database snapshot store")
	}
	slots, err := s.h.SavedSlots.Handle(ctx.Request().Context(), queries.NewGetSavedSlotsQuery())
	if err != nil {
		return fail(ctx, err)
	}

	response := make([]servers.SavedSlot, 0, len(slots))
	for _, slot := range slots {
		response = append(response, servers.SavedSlot{
			Name:          slot.Name,
			SchemaVersion: slot.SchemaVersion,
			SavedAt:       slot.SavedAt,
			Jobs:          slot.Jobs,
			Orders:        slot.Orders,
			Routes:        slot.Routes,
		})
	}
	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) GetBuildings(ctx echo.Context) error {
	if s.h.Directory == nil {
		return notImplemented(ctx, "no world directory is attached")
	}
	buildings := s.h.Directory()
	if buildings == nil {
		buildings = []servers.Building{}
	}
	return ctx.JSON(http.StatusOK, buildings)
}

func statusForReason(reason services.Reason) int {
	switch reason {
	case services.ReasonInvalidRequest:
		return http.StatusBadRequest
	case services.ReasonNotReady:
		return http.StatusServiceUnavailable
	case services.ReasonInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

func bind(ctx echo.Context, req any) error {
	if err := ctx.Bind(req); err != nil {
		return fmt.Errorf("%w: %v", errRequestInvalid, err)
	}
	return nil
}

func notImplemented(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusNotImplemented, servers.Error{Code: http.StatusNotImplemented, Message: message})
}

// fail writes err as an Error body with a status derived from its kind.
func fail(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errRequestInvalid),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		code = http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errs.ErrVersionIsInvalid):
		code = http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, commands.ErrCommandCancelled):
		code = http.StatusServiceUnavailable
	}

	message := err.Error()
	if code == http.StatusInternalServerError {
		ctx.Logger().Error(err)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: message})
}

// errorHandler renders errors that never reached a handler, such as a path
// parameter the generated wrapper could not bind, in the Error shape.
func errorHandler(err error, ctx echo.Context) {
	if ctx.Response().Committed {
		return
	}
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = ctx.JSON(httpErr.Code, servers.Error{Code: httpErr.Code, Message: fmt.Sprint(httpErr.Message)})
		return
	}
	_ = fail(ctx, err)
}

// toDemand covers what the schema cannot express: remaining never exceeds
// total.
func toDemand(d servers.Demand) (deliveryorder.Demand, error) {
	if d.Remaining > d.Total {
		return deliveryorder.Demand{}, errs.NewValueIsOutOfRangeError("remaining", d.Remaining, 0, d.Total)
	}
	price, err := decimal.NewFromString(d.PricePerUnit)
	if err != nil {
		return deliveryorder.Demand{}, errs.NewValueIsInvalidErrorWithCause("price_per_unit", err)
	}
	destination, err := kernel.ParseEntityRef(deref(d.Destination))
	if err != nil {
		return deliveryorder.Demand{}, err
	}
	return deliveryorder.Demand{
		OrderID:      kernel.OrderID(d.OrderId),
		Resource:     kernel.ResourceID(d.Resource),
		ProductName:  deref(d.ProductName),
		Total:        d.Total,
		Remaining:    d.Remaining,
		PricePerUnit: price,
		Accepted:     deref(d.Accepted),
		Destination:  destination,
	}, nil
}

func toPlanResult(r services.Result) servers.PlanResult {
	response := servers.PlanResult{
		Success:   r.Success,
		OrderId:   int64(r.OrderID),
		Quantity:  r.Quantity,
		TotalCost: r.TotalCost.StringFixed(2),
		JobIds:    make([]int64, 0, len(r.Jobs)),
		Message:   optional(r.Message),
	}
	if r.Reason != services.ReasonNone {
		reason := servers.PlanResultReason(r.Reason)
		response.Reason = &reason
	}
	for _, j := range r.Jobs {
		response.JobIds = append(response.JobIds, int64(j.ID()))
	}
	return response
}
