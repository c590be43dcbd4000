package coordinator

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"math"
	"slices"

	"logistics/internal/core/domain/model/carrier"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/model/supply"
	"logistics/internal/core/ports"
)

// TickReport summarizes one tick.
type TickReport struct {
	Arrived    int
	Dispatched int
	Faults     int
}

// Tick advances the simulation by dt seconds: carriers move first, then
// manual requests, routes and queued jobs are dispatched. Ticks before Attach
// do nothing. A negative or non-finite dt is treated as 0.
func (c *Coordinator) Tick(ctx context.Context, dt float64) TickReport {
	started := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	var report TickReport
	if !c.attached {
		return report
	}
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		dt = 0
	}

	if !c.isolate("movement", func() { c.moveCarriers(ctx, dt, &report) }) {
		report.Faults++
	}
	if !c.isolate("orders", func() { c.processOrders(ctx, dt, &report) }) {
		report.Faults++
	}

	c.metrics.CarriersActive(len(c.carriers))
	c.metrics.TickObserved(c.now().Sub(started))
	return report
}

func (c *Coordinator) moveCarriers(ctx context.Context, dt float64, report *TickReport) {
	current := c.carriers
	c.carriers = make([]*carrier.Carrier, 0, len(current))

	for _, cr := range current {
		if cr.HasJob() {
			// Failed while this tick was running.
			if _, live := c.ledger.Get(cr.JobID()); !live {
				continue
			}
		}

		var arrived bool
		if !c.isolate("movement", func() { arrived = cr.Advance(dt) }) {
			report.Faults++
			c.abandon(cr)
			continue
		}
		if !arrived {
			c.carriers = append(c.carriers, cr)
			continue
		}

		report.Arrived++
		if !c.isolate("arrival", func() { c.arrive(ctx, cr) }) {
			report.Faults++
		}
	}
}

// abandon gives up on a carrier that faulted. Its job fails, which returns
// the cargo to the supplier.
func (c *Coordinator) abandon(cr *carrier.Carrier) {
	if cr.HasJob() {
		c.ledger.MarkFailed(cr.JobID())
	}
	if r, ok := c.routes[cr.RouteID()]; ok {
		r.Returned()
	}
}

func (c *Coordinator) arrive(ctx context.Context, cr *carrier.Carrier) {
	dst, dstOK := c.registry.Lookup(cr.To())
	if cr.Quantity() > 0 && dstOK {
		if inv := dst.Inventory(); inv != nil {
			inv.Add(cr.Resource(), cr.Quantity())
		}
	}

	if cr.HasJob() {
		if dstOK {
			c.ledger.MarkCompleted(cr.JobID(), cr.Quantity())
		} else {
			c.logger.WarnContext(ctx, "carrier arrived at a vanished target", "job_id", cr.JobID())
			c.ledger.MarkFailed(cr.JobID())
		}
	}

	returning := false
	if cr.Quantity() > 0 && !cr.IsReturnLeg() && dstOK && cr.From().IsBuilding() && cr.To().IsBuilding() {
		if _, srcOK := c.registry.Lookup(cr.From()); srcOK {
			trip := cr.Trip()
			back := cr.ReturnTrip(c.waypoints(cr.Position(), trip.Start))
			if _, err := c.spawn(back); err != nil {
				c.logger.WarnContext(ctx, "return leg not spawned", "carrier_id", cr.ID().String(), "error", err)
			} else {
				returning = true
			}
		}
	}

	if r, ok := c.routes[cr.RouteID()]; ok && !returning {
		r.Returned()
	}
}

func (c *Coordinator) processOrders(ctx context.Context, dt float64, report *TickReport) {
	requests := c.manual
	c.manual = nil
	for _, req := range requests {
		if !c.isolate("manual", func() {
			if c.runManual(ctx, req) {
				report.Dispatched++
			}
		}) {
			report.Faults++
		}
	}

	for _, r := range c.sortedRoutes() {
		if !c.isolate("route", func() {
			if !r.Advance(dt) {
				return
			}
			dispatched := c.fireRoute(ctx, r)
			r.Fired(dispatched)
			if dispatched {
				report.Dispatched++
			}
		}) {
			report.Faults++
		}
	}

	if !c.needsReplanning {
		return
	}
	c.needsReplanning = false

	if !c.isolate("replan", func() { c.replanAccepted(ctx) }) {
		report.Faults++
	}
	for {
		j, ok := c.ledger.DequeueNext()
		if !ok {
			break
		}
		if !c.isolate("dispatch", func() {
			if c.dispatchJob(ctx, j) {
				report.Dispatched++
			}
		}) {
			report.Faults++
			c.ledger.MarkFailed(j.ID())
		}
	}
}

// dispatchJob loads the job's cargo at its supplier and puts a carrier on the
// road. A job that cannot leave is failed, which releases its reservation and
// raises replanning.
func (c *Coordinator) dispatchJob(ctx context.Context, j *job.Job) bool {
	fail := func(reason string) bool {
		c.logger.WarnContext(ctx, "job not dispatched", "job_id", j.ID(), "reason", reason)
		c.ledger.MarkFailed(j.ID())
		return false
	}

	src, ok := c.registry.Lookup(j.Supplier())
	if !ok || src.Inventory() == nil {
		return fail("supplier is gone")
	}
	if _, ok := c.registry.Lookup(j.Target()); !ok {
		return fail("target is gone")
	}

	inv := src.Inventory()
	taken := inv.Consume(j.Resource(), j.Quantity())
	if taken < j.Quantity() {
		inv.Add(j.Resource(), taken)
		return fail(fmt.Sprintf("supplier holds %d of %d", taken, j.Quantity()))
	}

	cr, err := c.spawn(carrier.Trip{
		JobID:     j.ID(),
		Resource:  j.Resource(),
		Quantity:  j.Quantity(),
		From:      j.Supplier(),
		To:        j.Target(),
		Start:     src.Position(),
		Target:    j.TargetPosition(),
		Waypoints: c.waypoints(src.Position(), j.TargetPosition()),
		Speed:     c.settings.CarrierSpeed,
	})
	if err != nil {
		inv.Add(j.Resource(), taken)
		return fail(err.Error())
	}

	// The stock left the building, so it no longer counts as reserved.
	c.index.Unreserve(j.Resource(), supply.SupplierID(j.Supplier(), j.Resource()), j.Quantity())
	c.ledger.MarkStarted(j.ID(), cr.ID())
	c.economy.Charge(j.Cost(), fmt.Sprintf("transport job %d", j.ID()))
	return true
}

// fireRoute sends one load from the route's supplier, leaving stock planned
// for jobs untouched.
func (c *Coordinator) fireRoute(ctx context.Context, r *route.Route) bool {
	src, srcOK := c.registry.Lookup(r.Supplier())
	dst, dstOK := c.registry.Lookup(r.Consumer())
	if !srcOK || !dstOK || src.Inventory() == nil {
		c.logger.DebugContext(ctx, "route endpoints missing", "route_id", r.ID())
		return false
	}

	return c.load(src, dst, r.Resource(), r.Capacity(), r.ID())
}

func (c *Coordinator) runManual(ctx context.Context, req manualRequest) bool {
	src, srcOK := c.registry.Lookup(req.source)
	dst, dstOK := c.registry.Lookup(req.target)
	if !srcOK || !dstOK || src.Inventory() == nil {
		c.logger.DebugContext(ctx, "manual transport endpoints missing", "source", req.source.String(), "target", req.target.String())
		return false
	}

	resource := req.resource
	if resource == "" {
		resource = largestHolding(src.Inventory())
		if resource == "" {
			return false
		}
	}
	return c.load(src, dst, resource, c.capacityOf(dst), 0)
}

func (c *Coordinator) load(src, dst ports.Building, resource kernel.ResourceID, capacity int, routeID route.ID) bool {
	inv := src.Inventory()
	free := inv.Get(resource) - c.plannedReservation(src.Ref(), resource)
	qty := min(capacity, free)
	if qty <= 0 {
		return false
	}

	taken := inv.Consume(resource, qty)
	if taken <= 0 {
		return false
	}
	if _, err := c.spawn(carrier.Trip{
		RouteID:   routeID,
		Resource:  resource,
		Quantity:  taken,
		From:      src.Ref(),
		To:        dst.Ref(),
		Start:     src.Position(),
		Target:    dst.Position(),
		Waypoints: c.waypoints(src.Position(), dst.Position()),
		Speed:     c.settings.CarrierSpeed,
	}); err != nil {
		inv.Add(resource, taken)
		c.logger.Warn("carrier not spawned", "source", src.Ref().String(), "error", err)
		return false
	}
	return true
}

func (c *Coordinator) spawn(trip carrier.Trip) (*carrier.Carrier, error) {
	cr, err := carrier.NewCarrier(kernel.NewUUID(), trip)
	if err != nil {
		return nil, err
	}
	c.carriers = append(c.carriers, cr)
	return cr, nil
}

// waypoints asks the road network for a path. Without one the carrier drives
// in a straight line.
func (c *Coordinator) waypoints(from, to kernel.Position) []kernel.Position {
	if c.roads == nil {
		return nil
	}
	wps, ok := c.roads.Route(from, to)
	if !ok {
		return nil
	}
	return wps
}

// plannedReservation is the stock at entity promised to jobs that have not
// left yet.
func (c *Coordinator) plannedReservation(entity kernel.EntityRef, resource kernel.ResourceID) int {
	var reserved int
	for _, j := range c.ledger.Jobs() {
		if j.Resource() != resource || !j.Supplier().IsEqual(entity) {
			continue
		}
		if s := j.Status(); s == job.Planned || s == job.Assigned {
			reserved += j.Quantity()
		}
	}
	return reserved
}

func (c *Coordinator) capacityOf(b ports.Building) int {
	if b != nil && b.CarrierCapacity() > 0 {
		return b.CarrierCapacity()
	}
	return c.settings.CarrierCapacity
}

// largestHolding picks the resource with the highest quantity, breaking ties
// by name.
func largestHolding(inv ports.Inventory) kernel.ResourceID {
	var (
		best    kernel.ResourceID
		bestQty int
	)
	held := inv.Snapshot()
	for _, r := range slices.Sorted(maps.Keys(held)) {
		if qty := held[r]; qty > bestQty {
			best, bestQty = r, qty
		}
	}
	return best
}

// byDistance orders records by straight-line distance to target, keeping the
// registry order for ties.
func byDistance(records []*supply.Record, target kernel.Position) {
	slices.SortStableFunc(records, func(a, b *supply.Record) int {
		return cmp.Compare(a.Position().Distance(target), b.Position().Distance(target))
	})
}
