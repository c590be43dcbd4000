package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"sync"
	"time"

	"logistics/internal/core/application/events"
	"logistics/internal/core/application/persistence"
	"logistics/internal/core/domain/model/carrier"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/model/supply"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrNotAttached is returned by operations that need the ledgers wired up.
var ErrNotAttached = errors.New("coordinator is not attached")

// Settings are the transport tunables.
type Settings struct {
	// CarrierCapacity is the load of one carrier when the target building
	// does not set its own.
	CarrierCapacity  int
	// CarrierSpeed is in world units per second.
	CarrierSpeed     float64
	CostPerTile      decimal.Decimal
	FixedCarrierCost decimal.Decimal
	TileSize         float64
}

// Validate checks that every tunable is usable.
func (s Settings) Validate() error {
	var errList []error
	if s.CarrierCapacity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"carrier capacity", fmt.Errorf("%d is not greater than 0", s.CarrierCapacity)))
	}
	if s.CarrierSpeed <= 0 || math.IsInf(s.CarrierSpeed, 0) || math.IsNaN(s.CarrierSpeed) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"carrier speed", fmt.Errorf("%v is not a positive number", s.CarrierSpeed)))
	}
	if s.TileSize <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"tile size", fmt.Errorf("%v is not greater than 0", s.TileSize)))
	}
	if s.CostPerTile.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("cost per tile is negative"))
	}
	if s.FixedCarrierCost.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("fixed carrier cost is negative"))
	}
	return errors.Join(errList...)
}

// Dependencies are the world collaborators. Registry is required; Roads,
// RouteCost, Economy and Metrics fall back to straight lines, straight-line
// pricing and no-ops.
type Dependencies struct {
	Registry  ports.BuildingRegistry
	Roads     ports.RoadNetwork
	RouteCost ports.RouteCostFunc
	Economy   ports.EconomyLedger
	Metrics   ports.Metrics
	Logger    *slog.Logger
}

type manualRequest struct {
	source   kernel.EntityRef
	target   kernel.EntityRef
	resource kernel.ResourceID
}

func (r manualRequest) touches(ref kernel.EntityRef) bool {
	return r.source.IsEqual(ref) || r.target.IsEqual(ref)
}

// Coordinator drives the transport core. It owns the ledgers, the supply
// index, the planner, the event bus, the active carriers and the recurring
// routes.
//
// Key responsibilities:
//   - Ticking carriers and handling their arrival
//   - Draining manual requests, firing routes and dispatching queued jobs
//   - Planning accepted delivery orders against live world stock
//   - Compensating failed jobs and cancelling jobs of destroyed entities
//   - Saving and loading the transport state
//
// Construction is two-phase. New builds a detached coordinator with no side
// effects; Attach waits for the service registry and wires the notifications.
// Every exported method takes the same lock, so HTTP handlers and the ticker
// can call in from different goroutines. Event handlers run under that lock
// and must not call back into the coordinator.
type Coordinator struct {
	mu sync.Mutex

	settings Settings
	registry ports.BuildingRegistry
	roads    ports.RoadNetwork
	economy  ports.EconomyLedger
	metrics  ports.Metrics
	logger   *slog.Logger

	ledger      *job.Ledger
	book        *deliveryorder.Book
	index       *supply.Index
	planner     *services.Planner
	bus         *events.Bus
	persistence *persistence.Service

	carriers        []*carrier.Carrier
	routes          map[route.ID]*route.Route
	lastRouteID     route.ID
	manual          []manualRequest
	needsReplanning bool

	attached bool
	detach   []func()
	now      func() time.Time
}

// New builds a detached coordinator.
func New(settings Settings, deps Dependencies) (*Coordinator, error) {
	var errList []error
	if err := settings.Validate(); err != nil {
		errList = append(errList, err)
	}
	if deps.Registry == nil {
		errList = append(errList, errs.NewValueIsRequiredError("building registry"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	economy := deps.Economy
	if economy == nil {
		economy = nopEconomy{}
	}

	ledger := job.NewLedger()
	book := deliveryorder.NewBook()
	index := supply.NewIndex()
	planner, err := services.NewPlanner(ledger, book, index, deps.RouteCost)
	if err != nil {
		return nil, err
	}
	store, err := persistence.NewService(ledger, book, logger)
	if err != nil {
		return nil, err
	}

	return &Coordinator{
		settings:    settings,
		registry:    deps.Registry,
		roads:       deps.Roads,
		economy:     economy,
		metrics:     metrics,
		logger:      logger.With("component", "coordinator"),
		ledger:      ledger,
		book:        book,
		index:       index,
		planner:     planner,
		bus:         events.NewBus(logger),
		persistence: store,
		routes:      make(map[route.ID]*route.Route),
		now:         time.Now,
	}, nil
}

// Attach waits until registry is ready, then wires the ledger, the planner
// and the metrics into the event bus. A nil registry counts as ready. Calling
// Attach again is a no-op.
func (c *Coordinator) Attach(ctx context.Context, registry ports.ServiceRegistry) error {
	if registry != nil {
		select {
		case <-registry.Ready():
		case <-ctx.Done():
			return fmt.Errorf("wait for services: %w", ctx.Err())
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.attached {
		return nil
	}

	// The coordinator listens before the bus so that order bookkeeping is
	// done by the time subscribers see an event.
	cancelLedger := c.ledger.Subscribe(c.onLedger)
	c.bus.ConnectJobLedger(c.ledger)
	c.bus.ConnectPlanner(c.planner)
	metricsSub := c.bus.Subscribe(nil, c.observe)

	c.detach = []func(){
		cancelLedger,
		c.bus.DisconnectJobLedger,
		c.bus.DisconnectPlanner,
		metricsSub.Cancel,
	}
	c.attached = true
	c.logger.InfoContext(ctx, "coordinator attached")
	return nil
}

// Detach undoes Attach. Ticks become no-ops until the next Attach.
func (c *Coordinator) Detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fn := range c.detach {
		fn()
	}
	c.detach = nil
	c.attached = false
}

// Events is the bus every job lifecycle change is published on.
func (c *Coordinator) Events() *events.Bus {
	return c.bus
}

// NeedsReplanning reports whether the next tick replans accepted orders.
func (c *Coordinator) NeedsReplanning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needsReplanning
}

func (c *Coordinator) onLedger(n job.Notification) {
	j := n.Job
	switch n.Kind {
	case job.NotifyCompleted:
		c.book.OnJobCompleted(j, n.Delivered)
		if n.Delivered > 0 && j.PricePerUnit().IsPositive() {
			c.economy.Credit(j.PricePerUnit().Mul(decimal.NewFromInt(int64(n.Delivered))),
				fmt.Sprintf("delivery job %d", j.ID()))
		}
		c.needsReplanning = true
	case job.NotifyFailed:
		c.compensate(j)
		c.book.OnJobFailed(j)
		c.needsReplanning = true
	}
}

// compensate gives back what a failed job held. Jobs that never left release
// their reservation; jobs on the road lose their carrier and the cargo goes
// back to the supplier when it still exists.
func (c *Coordinator) compensate(j *job.Job) {
	if j.Carrier() == nil {
		c.index.Unreserve(j.Resource(), supply.SupplierID(j.Supplier(), j.Resource()), j.Quantity())
		return
	}

	c.dropCarriers(func(cr *carrier.Carrier) bool { return cr.JobID() == j.ID() })

	src, ok := c.registry.Lookup(j.Supplier())
	if !ok || src.Inventory() == nil {
		c.logger.Warn("cargo of failed job lost", "job_id", j.ID(), "resource", j.Resource(), "quantity", j.Quantity())
		return
	}
	src.Inventory().Add(j.Resource(), j.Quantity())
}

func (c *Coordinator) observe(e events.Event) {
	resource := e.Job.Resource().String()
	switch e.Kind {
	case events.KindPlanned:
		c.metrics.JobPlanned(resource)
	case events.KindStarted:
		c.metrics.JobStarted(resource)
	case events.KindCompleted:
		c.metrics.JobCompleted(resource, e.Delivered)
	case events.KindFailed:
		c.metrics.JobFailed(resource)
	}
}

// isolate runs fn and turns a panic into a logged fault. It reports whether
// fn returned normally.
func (c *Coordinator) isolate(phase string, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			c.metrics.FaultRecovered(phase)
			c.logger.Error("recovered from fault", "phase", phase, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
	return true
}

func (c *Coordinator) dropCarriers(match func(*carrier.Carrier) bool) int {
	before := len(c.carriers)
	kept := c.carriers[:0]
	for _, cr := range c.carriers {
		if !match(cr) {
			kept = append(kept, cr)
		}
	}
	clear(c.carriers[len(kept):])
	c.carriers = kept
	return before - len(kept)
}

type nopEconomy struct{}

func (nopEconomy) Charge(decimal.Decimal, string) {}
func (nopEconomy) Credit(decimal.Decimal, string) {}
