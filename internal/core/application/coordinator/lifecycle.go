package coordinator

import (
	"context"
	"fmt"

	"logistics/internal/core/application/persistence"
	"logistics/internal/core/domain/model/carrier"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/ports"
)

// EntityDestroyed forgets everything that depends on ref: its jobs fail,
// carriers heading to or from it vanish, and its routes and pending manual
// requests are dropped. It returns the failed jobs.
func (c *Coordinator) EntityDestroyed(ctx context.Context, ref kernel.EntityRef) []*job.Job {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ref.IsNone() {
		return nil
	}

	failed := c.ledger.CancelForEntity(ref)
	dropped := c.dropCarriers(func(cr *carrier.Carrier) bool { return cr.Touches(ref) })
	for id, r := range c.routes {
		if r.Touches(ref) {
			delete(c.routes, id)
		}
	}
	kept := c.manual[:0]
	for _, req := range c.manual {
		if !req.touches(ref) {
			kept = append(kept, req)
		}
	}
	c.manual = kept
	c.needsReplanning = true

	c.logger.InfoContext(ctx, "entity destroyed",
		"entity", ref.String(), "failed_jobs", len(failed), "dropped_carriers", dropped)
	return failed
}

// RoadNetworkChanged reroutes every carrier from where it stands and
// schedules a replanning pass.
func (c *Coordinator) RoadNetworkChanged(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cr := range c.carriers {
		cr.Reroute(c.waypoints(cr.Position(), cr.Target()))
	}
	c.needsReplanning = true
	c.logger.DebugContext(ctx, "road network changed", "carriers", len(c.carriers))
}

// FailJob fails a live job as if its carrier broke down.
func (c *Coordinator) FailJob(id job.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.MarkFailed(id)
}

// Save captures the transport state and writes it to slot.
func (c *Coordinator) Save(ctx context.Context, store ports.SnapshotStore, slot string) error {
	c.mu.Lock()
	snap := c.capture()
	c.mu.Unlock()

	snap.SavedAt = c.now().UTC()
	if err := store.Save(ctx, slot, snap); err != nil {
		return fmt.Errorf("save slot %q: %w", slot, err)
	}
	c.logger.InfoContext(ctx, "transport state saved", "slot", slot, "jobs", len(snap.Jobs), "orders", len(snap.Orders))
	return nil
}

// Load replaces the transport state with slot. Carriers are not saved, so
// every job goes back to Planned, active carriers are dropped and the stock
// is reserved again on the next plan.
func (c *Coordinator) Load(ctx context.Context, store ports.SnapshotStore, slot string) (persistence.RestoreReport, error) {
	snap, err := store.Load(ctx, slot)
	if err != nil {
		return persistence.RestoreReport{}, fmt.Errorf("load slot %q: %w", slot, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	report, err := c.persistence.RestoreState(snap, c.resolve)
	if err != nil {
		return report, fmt.Errorf("restore slot %q: %w", slot, err)
	}
	c.ledger.ResetAllToPlanned()
	c.index.Clear()
	c.carriers = nil
	c.manual = nil
	c.restoreRoutes(snap.Routes, &report)
	c.needsReplanning = true

	c.logger.InfoContext(ctx, "transport state loaded", "slot", slot,
		"jobs", report.Jobs, "orders", report.Orders, "routes", len(c.routes),
		"skipped_jobs", report.SkippedJobs, "unresolved_refs", report.UnresolvedRefs)
	return report, nil
}

// Capture returns the current transport state without storing it.
func (c *Coordinator) Capture() snapshot.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capture()
}

func (c *Coordinator) capture() snapshot.Snapshot {
	snap := c.persistence.CaptureState()
	for _, r := range c.sortedRoutes() {
		snap.Routes = append(snap.Routes, snapshot.Route{
			ID:          int64(r.ID()),
			Supplier:    snapshot.KeyOf(r.Supplier()),
			Consumer:    snapshot.KeyOf(r.Consumer()),
			Resource:    r.Resource().String(),
			Period:      r.Period(),
			Capacity:    r.Capacity(),
			Accumulator: r.Accumulator(),
			InTransit:   r.InTransit(),
		})
	}
	return snap
}

func (c *Coordinator) restoreRoutes(saved []snapshot.Route, report *persistence.RestoreReport) {
	c.routes = make(map[route.ID]*route.Route, len(saved))
	c.lastRouteID = 0
	for _, sr := range saved {
		c.lastRouteID = max(c.lastRouteID, route.ID(sr.ID))

		supplier, okS := c.resolve(sr.Supplier)
		consumer, okC := c.resolve(sr.Consumer)
		if !okS || !okC {
			report.UnresolvedRefs++
			continue
		}
		// The carrier of a saved round trip is gone.
		r, err := route.RestoreRoute(route.ID(sr.ID), supplier, consumer,
			kernel.ResourceID(sr.Resource), sr.Period, sr.Capacity, sr.Accumulator, false)
		if err != nil {
			c.logger.Warn("skipping route from snapshot", "route_id", sr.ID, "error", err)
			continue
		}
		c.routes[r.ID()] = r
	}
}

// resolve maps a saved key to a building that still exists.
func (c *Coordinator) resolve(key snapshot.EntityKey) (kernel.EntityRef, bool) {
	ref, err := kernel.ParseEntityRef(key.String())
	if err != nil || ref.IsNone() {
		return kernel.NoEntity(), false
	}
	if _, ok := c.registry.Lookup(ref); !ok {
		return kernel.NoEntity(), false
	}
	return ref, true
}
