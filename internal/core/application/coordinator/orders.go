package coordinator

import (
	"context"
	"fmt"
	"runtime/debug"

	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/supply"
	"logistics/internal/core/domain/services"
	"logistics/internal/pkg/errs"
)

// AcceptDeliveryOrder accepts an order on the player's behalf and plans its
// outstanding demand toward target, drawing on the nearest suppliers first.
// A known order keeps its progress; demand only seeds orders seen for the
// first time. Accepted orders are replanned automatically when jobs fail.
func (c *Coordinator) AcceptDeliveryOrder(ctx context.Context, demand deliveryorder.Demand, target kernel.EntityRef) (result services.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			c.metrics.FaultRecovered("accept")
			c.logger.ErrorContext(ctx, "recovered from fault", "phase", "accept", "order_id", demand.OrderID,
				"panic", r, "stack", string(debug.Stack()))
			result = services.Failure(demand.OrderID, services.ReasonInternal, "internal error")
		}
	}()

	if !c.attached {
		return services.Failure(demand.OrderID, services.ReasonNotReady, ErrNotAttached.Error())
	}

	demand.Accepted = false
	order, err := c.book.EnsureDeliveryOrder(demand)
	if err != nil {
		return services.Failure(demand.OrderID, services.ReasonInvalidRequest, fmt.Sprintf("invalid request: %v", err))
	}
	c.book.SetDestination(order.ID(), target)

	result = c.plan(order.Demand())
	if !result.Success {
		c.metrics.PlanRejected(string(result.Reason))
		c.logger.InfoContext(ctx, "delivery order rejected",
			"order_id", demand.OrderID, "reason", result.Reason, "message", result.Message)
		return result
	}

	c.book.Accept(order.ID())
	c.needsReplanning = true
	c.logger.InfoContext(ctx, "delivery order accepted",
		"order_id", demand.OrderID, "jobs", len(result.Jobs), "quantity", result.Quantity, "cost", result.TotalCost.String())
	return result
}

// RefreshOrders upserts market demand into the order book and schedules a
// replanning pass.
func (c *Coordinator) RefreshOrders(demands []deliveryorder.Demand) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	err := c.book.Refresh(demands)
	c.needsReplanning = true
	return err
}

// plan runs the planner for demand toward its destination.
func (c *Coordinator) plan(demand deliveryorder.Demand) services.Result {
	dst, ok := c.registry.Lookup(demand.Destination)
	if !ok {
		return services.Failure(demand.OrderID, services.ReasonInvalidRequest,
			fmt.Sprintf("destination %s not found", demand.Destination))
	}

	return c.planner.PlanDelivery(services.Request{
		Demand:          demand,
		Target:          dst.Ref(),
		TargetPosition:  dst.Position(),
		Candidates:      c.candidates(demand.Resource, dst.Ref(), dst.Position()),
		CarrierCapacity: c.capacityOf(dst),
		CostPerTile:     c.settings.CostPerTile,
		FixedCost:       c.settings.FixedCarrierCost,
		TileSize:        c.settings.TileSize,
	})
}

func (c *Coordinator) replanAccepted(ctx context.Context) {
	for _, o := range c.book.Accepted() {
		result := c.plan(o.Demand())
		if !result.Success {
			c.metrics.PlanRejected(string(result.Reason))
			c.logger.DebugContext(ctx, "replanning deferred",
				"order_id", o.ID(), "reason", result.Reason, "message", result.Message)
			continue
		}
		if len(result.Jobs) > 0 {
			c.logger.InfoContext(ctx, "order replanned", "order_id", o.ID(), "jobs", len(result.Jobs))
		}
	}
}

// candidates samples every building holding resource, except the target,
// nearest first. Stock promised to jobs that have not left counts as reserved.
func (c *Coordinator) candidates(resource kernel.ResourceID, target kernel.EntityRef, at kernel.Position) []*supply.Record {
	var out []*supply.Record
	for _, b := range c.registry.Holding(resource) {
		if b.Ref().IsEqual(target) || b.Inventory() == nil {
			continue
		}
		rec, err := supply.NewRecord(b.Ref(), resource, b.Position(),
			b.Inventory().Get(resource), c.plannedReservation(b.Ref(), resource))
		if err != nil {
			c.logger.Warn("supplier skipped", "entity", b.Ref().String(), "error", err)
			continue
		}
		out = append(out, rec)
	}
	byDistance(out, at)
	return out
}

// RequestTransport queues a one-off load from source to target for the next
// tick. An empty resource moves whatever source holds most of.
func (c *Coordinator) RequestTransport(source, target kernel.EntityRef, resource kernel.ResourceID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEndpoints(source, target); err != nil {
		return err
	}
	c.manual = append(c.manual, manualRequest{source: source, target: target, resource: resource})
	return nil
}

func (c *Coordinator) checkEndpoints(source, target kernel.EntityRef) error {
	if source.IsNone() {
		return errs.NewValueIsRequiredError("source")
	}
	if target.IsNone() {
		return errs.NewValueIsRequiredError("target")
	}
	if source.IsEqual(target) {
		return errs.NewValueIsInvalidError("target must differ from source")
	}
	if _, ok := c.registry.Lookup(source); !ok {
		return errs.NewObjectNotFoundError("source", source.String())
	}
	if _, ok := c.registry.Lookup(target); !ok {
		return errs.NewObjectNotFoundError("target", target.String())
	}
	return nil
}
