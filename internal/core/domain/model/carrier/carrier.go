package carrier

import (
	"errors"
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

const (
	// WaypointEpsilon is how close a carrier must be to a waypoint to snap onto it.
	WaypointEpsilon = 0.1
	// ArrivalEpsilon is how close a carrier must be to its final target to arrive.
	ArrivalEpsilon = 0.01
)

// ErrCarrierIsNotConstructed is returned for carriers not built by NewCarrier.
var ErrCarrierIsNotConstructed = errors.New("Carrier must be created via NewCarrier constructor")

// Trip describes what a carrier moves and where.
//
// JobID is zero for manual and route trips; RouteID is zero unless the trip
// belongs to a recurring route. Waypoints come from the road network and may
// be empty, in which case the carrier drives in a straight line.
type Trip struct {
	JobID     job.ID
	RouteID   route.ID
	Resource  kernel.ResourceID
	Quantity  int
	From      kernel.EntityRef
	To        kernel.EntityRef
	Start     kernel.Position
	Target    kernel.Position
	Waypoints []kernel.Position
	Speed     float64
	ReturnLeg bool
}

// Carrier is a truck moving cargo between two entities. Carriers are runtime
// only: they are never persisted, and a reload requeues their jobs instead.
type Carrier struct {
	id        kernel.UUID
	trip      Trip
	position  kernel.Position
	waypoints []kernel.Position
	guard     guard.ConstructorGuard
}

// NewCarrier places a carrier at trip.Start.
func NewCarrier(id kernel.UUID, trip Trip) (*Carrier, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if trip.Quantity < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is negative", trip.Quantity)))
	}
	if trip.Quantity > 0 {
		if err := trip.Resource.Validate(); err != nil {
			errList = append(errList, err)
		}
	}
	if trip.Speed <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"speed", fmt.Errorf("%v is not greater than 0", trip.Speed)))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	trip.Waypoints = slices.Clone(trip.Waypoints)
	return &Carrier{
		id:        id,
		trip:      trip,
		position:  trip.Start,
		waypoints: slices.Clone(trip.Waypoints),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether c was built by NewCarrier.
func (c *Carrier) Validate() error {
	if c == nil {
		return ErrCarrierIsNotConstructed
	}
	return c.guard.Validate(ErrCarrierIsNotConstructed)
}

// ID returns the carrier id.
func (c *Carrier) ID() kernel.UUID {
	return c.id
}

// JobID returns the ledger job being executed, or 0 for manual and route trips.
func (c *Carrier) JobID() job.ID {
	return c.trip.JobID
}

// RouteID returns the route the trip belongs to, or 0 for ledger jobs.
func (c *Carrier) RouteID() route.ID {
	return c.trip.RouteID
}

// Resource returns the carried resource.
func (c *Carrier) Resource() kernel.ResourceID {
	return c.trip.Resource
}

// Quantity returns the number of units on board.
func (c *Carrier) Quantity() int {
	return c.trip.Quantity
}

// From returns the entity the cargo was loaded at.
func (c *Carrier) From() kernel.EntityRef {
	return c.trip.From
}

// To returns the entity the cargo is heading to.
func (c *Carrier) To() kernel.EntityRef {
	return c.trip.To
}

// Position returns the current position of the carrier.
func (c *Carrier) Position() kernel.Position {
	return c.position
}

// Target returns the final position of the trip.
func (c *Carrier) Target() kernel.Position {
	return c.trip.Target
}

// Speed returns the travel speed in world units per second.
func (c *Carrier) Speed() float64 {
	return c.trip.Speed
}

// IsReturnLeg reports whether the carrier drives back empty.
func (c *Carrier) IsReturnLeg() bool {
	return c.trip.ReturnLeg
}

// HasJob reports whether the carrier executes a ledger job.
func (c *Carrier) HasJob() bool { return c.trip.JobID > 0 }

// Trip returns a copy of the trip the carrier was created for.
func (c *Carrier) Trip() Trip {
	t := c.trip
	t.Waypoints = slices.Clone(c.trip.Waypoints)
	return t
}

// RemainingWaypoints returns the waypoints not reached yet.
func (c *Carrier) RemainingWaypoints() []kernel.Position {
	return slices.Clone(c.waypoints)
}

// Touches reports whether ref is either end of the trip.
func (c *Carrier) Touches(ref kernel.EntityRef) bool {
	return c.trip.From.IsEqual(ref) || c.trip.To.IsEqual(ref)
}

// Advance moves the carrier by speed*dt along its waypoints and then toward
// its target, and reports whether it arrived. Distance left over after
// reaching a waypoint is spent on the next leg within the same call.
func (c *Carrier) Advance(dt float64) bool {
	budget := c.trip.Speed * max(0, dt)

	for len(c.waypoints) > 0 {
		wp := c.waypoints[0]
		d := c.position.Distance(wp)
		if d < WaypointEpsilon || d <= budget {
			c.position = wp
			c.waypoints = c.waypoints[1:]
			budget = max(0, budget-d)
			continue
		}
		c.position = c.position.MoveToward(wp, budget)
		return false
	}

	if c.position.Distance(c.trip.Target) < ArrivalEpsilon {
		c.position = c.trip.Target
		return true
	}
	c.position = c.position.MoveToward(c.trip.Target, budget)
	if c.position.Distance(c.trip.Target) < ArrivalEpsilon {
		c.position = c.trip.Target
		return true
	}
	return false
}

// ReturnTrip builds the empty leg back to where the cargo came from.
func (c *Carrier) ReturnTrip(waypoints []kernel.Position) Trip {
	return Trip{
		RouteID:   c.trip.RouteID,
		Resource:  c.trip.Resource,
		From:      c.trip.To,
		To:        c.trip.From,
		Start:     c.position,
		Target:    c.trip.Start,
		Waypoints: waypoints,
		Speed:     c.trip.Speed,
		ReturnLeg: true,
	}
}

// Reroute replaces the remaining waypoints, keeping the current position and
// target.
func (c *Carrier) Reroute(waypoints []kernel.Position) {
	c.waypoints = slices.Clone(waypoints)
}
