package services

import (
	"errors"
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/supply"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Reason classifies why a plan was not committed.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonInvalidRequest     Reason = "invalid_request"
	ReasonNoSuppliers        Reason = "no_suppliers"
	ReasonInsufficientStock  Reason = "insufficient_stock"
	ReasonPlanningIncomplete Reason = "planning_incomplete"
	ReasonNotReady           Reason = "not_ready"
	ReasonInternal           Reason = "internal"
)

// Request asks for the outstanding demand of one order to be planned.
//
// Candidates are the suppliers of Demand.Resource in priority order: the
// planner drains them front to back and never reorders them. Records for
// other resources are ignored.
type Request struct {
	Demand          deliveryorder.Demand
	Target          kernel.EntityRef
	TargetPosition  kernel.Position
	Candidates      []*supply.Record
	CarrierCapacity int
	CostPerTile     decimal.Decimal
	FixedCost       decimal.Decimal
	TileSize        float64
}

// Validate rejects requests that cannot be planned at all.
func (r Request) Validate() error {
	var errList []error
	if err := r.Demand.Validate(); err != nil {
		errList = append(errList, err)
	}
	if r.CarrierCapacity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"carrier capacity", fmt.Errorf("%d is not greater than 0", r.CarrierCapacity)))
	}
	if r.TileSize <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"tile size", fmt.Errorf("%v is not greater than 0", r.TileSize)))
	}
	if r.CostPerTile.IsNegative() || r.FixedCost.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidError("cost is negative"))
	}
	return errors.Join(errList...)
}

// Result reports the outcome of PlanDelivery. When Success is false, Jobs is
// empty and nothing was reserved or queued.
type Result struct {
	Success   bool
	OrderID   kernel.OrderID
	Quantity  int
	TotalCost decimal.Decimal
	Jobs      []*job.Job
	Reason    Reason
	Message   string
}

func failure(orderID kernel.OrderID, reason Reason, format string, args ...any) Result {
	return Result{
		OrderID: orderID,
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

// Failure builds a failed result. The coordinator uses it to report faults
// caught at its boundary.
func Failure(orderID kernel.OrderID, reason Reason, message string) Result {
	return failure(orderID, reason, "%s", message)
}

// Planner matches delivery orders against the supply index and commits the
// resulting jobs to the ledger.
//
// Key responsibilities:
//   - Rejecting plans that cannot cover the full outstanding demand
//   - Splitting demand into carrier-sized jobs across suppliers
//   - Reserving stock in both the order book and the supply index
//   - Pricing each job with the injected route cost, or the straight line
//
// Planning is all or nothing: a failed attempt leaves the ledger, the book's
// reservations and the index exactly as they were.
type Planner struct {
	ledger *job.Ledger
	book   *deliveryorder.Book
	index  *supply.Index
	cost   ports.RouteCostFunc
	split  func(suppliers []*supply.Record, demand, capacity int) []Chunk

	listeners  []plannedListener
	listenerID int
}

type plannedListener struct {
	id int
	fn func(*job.Job)
}

// NewPlanner wires a planner to the ledgers it commits into. cost may be nil.
func NewPlanner(
	ledger *job.Ledger,
	book *deliveryorder.Book,
	index *supply.Index,
	cost ports.RouteCostFunc,
) (*Planner, error) {
	var errList []error
	if ledger == nil {
		errList = append(errList, errs.NewValueIsRequiredError("ledger"))
	}
	if book == nil {
		errList = append(errList, errs.NewValueIsRequiredError("book"))
	}
	if index == nil {
		errList = append(errList, errs.NewValueIsRequiredError("index"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Planner{
		ledger: ledger,
		book:   book,
		index:  index,
		cost:   cost,
		split:  Split,
	}, nil
}

// SetRouteCost replaces the route cost function, e.g. after the road network changed.
func (p *Planner) SetRouteCost(cost ports.RouteCostFunc) {
	p.cost = cost
}

// OnPlanned registers fn to be called for every committed job. The returned
// cancel function is idempotent.
func (p *Planner) OnPlanned(fn func(*job.Job)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	p.listenerID++
	id := p.listenerID
	p.listeners = append(p.listeners, plannedListener{id: id, fn: fn})

	return func() {
		p.listeners = slices.DeleteFunc(p.listeners, func(l plannedListener) bool {
			return l.id == id
		})
	}
}

// PlanDelivery plans the outstanding demand of req.Demand.OrderID.
//
// Steps:
//  1. Fail with ReasonNoSuppliers when there is no candidate
//  2. Fail with ReasonInsufficientStock when free stock cannot cover demand
//  3. Rebuild the supply index from the candidates
//  4. Split demand across suppliers in the given order
//  5. Fail with ReasonPlanningIncomplete when the split falls short
//  6. Commit: reserve, price, queue and announce every job
//
// The order is created in the book on first reference, even when planning
// then fails; an order with nothing outstanding plans successfully with no jobs.
func (p *Planner) PlanDelivery(req Request) Result {
	orderID := req.Demand.OrderID
	if err := req.Validate(); err != nil {
		return failure(orderID, ReasonInvalidRequest, "invalid request: %v", err)
	}

	order, err := p.book.EnsureDeliveryOrder(req.Demand)
	if err != nil {
		return failure(orderID, ReasonInvalidRequest, "invalid request: %v", err)
	}
	outstanding := order.Outstanding()
	resource := order.Resource()

	candidates := dedupe(slices.DeleteFunc(slices.Clone(req.Candidates), func(r *supply.Record) bool {
		return r == nil || r.Resource() != resource
	}))
	if len(candidates) == 0 {
		return failure(orderID, ReasonNoSuppliers, "no suppliers available")
	}

	var free int
	for _, c := range candidates {
		free += c.Free()
	}
	if free < outstanding {
		return failure(orderID, ReasonInsufficientStock,
			"insufficient stock: needed %d, available %d", outstanding, free)
	}
	if outstanding == 0 {
		return Result{Success: true, OrderID: orderID, TotalCost: decimal.Zero}
	}

	p.index.Rebuild(candidates)
	chunks := p.split(p.index.Suppliers(resource), outstanding, req.CarrierCapacity)
	if Total(chunks) < outstanding {
		return failure(orderID, ReasonPlanningIncomplete, "planning incomplete")
	}

	// Jobs are built before any state changes; a construction error commits nothing.
	jobs := make([]*job.Job, 0, len(chunks))
	for _, c := range chunks {
		j, err := job.NewJob(p.ledger.NextID(), job.Draft{
			OrderID:        orderID,
			Resource:       resource,
			Quantity:       c.Quantity,
			Cost:           p.price(c, req),
			PricePerUnit:   order.PricePerUnit(),
			StartPosition:  c.Supplier.Position(),
			TargetPosition: req.TargetPosition,
			Supplier:       c.Supplier.Entity(),
			Target:         req.Target,
		})
		if err != nil {
			return failure(orderID, ReasonInternal, "job construction failed: %v", err)
		}
		jobs = append(jobs, j)
	}

	result := Result{
		Success:   true,
		OrderID:   orderID,
		TotalCost: decimal.Zero,
		Jobs:      jobs,
	}

	p.book.MarkInTransport(orderID)
	for i, c := range chunks {
		j := jobs[i]
		p.book.Reserve(orderID, c.Quantity)
		p.index.Reserve(resource, c.Supplier.ID(), c.Quantity)
		p.book.AppendJob(orderID, j.ID())
		if err := p.ledger.AddJob(j); err != nil {
			// Ids come from this ledger's allocator.
			panic(fmt.Sprintf("planner: ledger rejected fresh job %d: %v", j.ID(), err))
		}
		p.notify(j)

		result.Quantity += c.Quantity
		result.TotalCost = result.TotalCost.Add(j.Cost())
	}

	return result
}

// dedupe keeps one record per supplier id, the last one, at the position of
// the first, the same merge Index.Rebuild applies.
func dedupe(records []*supply.Record) []*supply.Record {
	pos := make(map[string]int, len(records))
	out := records[:0]
	for _, r := range records {
		if i, ok := pos[r.ID()]; ok {
			out[i] = r
			continue
		}
		pos[r.ID()] = len(out)
		out = append(out, r)
	}
	return out
}

func (p *Planner) price(c Chunk, req Request) decimal.Decimal {
	from := c.Supplier.Position()
	if p.cost != nil {
		if cost, ok := p.cost(from, req.TargetPosition, req.CostPerTile, c.Quantity, req.TileSize, req.FixedCost); ok {
			return cost
		}
	}
	return StraightLineCost(from, req.TargetPosition, req.CostPerTile, c.Quantity, req.TileSize, req.FixedCost)
}

func (p *Planner) notify(j *job.Job) {
	for _, l := range slices.Clone(p.listeners) {
		l.fn(j)
	}
}
