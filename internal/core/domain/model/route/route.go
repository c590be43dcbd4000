package route

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// ID identifies a recurring route within one coordinator.
type ID int64

// ErrRouteIsNotConstructed is returned for routes not built by NewRoute.
var ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute constructor")

// Route is a standing supplier -> consumer binding for one resource. Every
// period it sends up to capacity units, but never while its previous round
// trip is still on the road.
type Route struct {
	id          ID
	supplier    kernel.EntityRef
	consumer    kernel.EntityRef
	resource    kernel.ResourceID
	period      float64
	capacity    int
	accumulator float64
	inTransit   bool

	isConstructed bool
}

// NewRoute validates the binding. period is in seconds of simulation time.
func NewRoute(
	id ID,
	supplier, consumer kernel.EntityRef,
	resource kernel.ResourceID,
	period float64,
	capacity int,
) (*Route, error) {
	var errList []error
	if id <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("route id", fmt.Errorf("%d is not greater than 0", id)))
	}
	if supplier.IsNone() {
		errList = append(errList, errs.NewValueIsRequiredError("supplier"))
	}
	if consumer.IsNone() {
		errList = append(errList, errs.NewValueIsRequiredError("consumer"))
	}
	if supplier.IsEqual(consumer) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("consumer", errors.New("must differ from supplier")))
	}
	if err := resource.Validate(); err != nil {
		errList = append(errList, err)
	}
	if period <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("period", fmt.Errorf("%v is not greater than 0", period)))
	}
	if capacity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("capacity", fmt.Errorf("%d is not greater than 0", capacity)))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Route{
		id:            id,
		supplier:      supplier,
		consumer:      consumer,
		resource:      resource,
		period:        period,
		capacity:      capacity,
		isConstructed: true,
	}, nil
}

// RestoreRoute rebuilds a saved route. The accumulator is clamped to [0, period].
func RestoreRoute(
	id ID,
	supplier, consumer kernel.EntityRef,
	resource kernel.ResourceID,
	period float64,
	capacity int,
	accumulator float64,
	inTransit bool,
) (*Route, error) {
	r, err := NewRoute(id, supplier, consumer, resource, period, capacity)
	if err != nil {
		return nil, err
	}
	r.accumulator = min(max(0, accumulator), period)
	r.inTransit = inTransit
	return r, nil
}

// Validate reports whether r was built by a constructor.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}
	return nil
}

// ID returns the route id.
func (r *Route) ID() ID {
	return r.id
}

// Supplier returns the entity the route loads from.
func (r *Route) Supplier() kernel.EntityRef {
	return r.supplier
}

// Consumer returns the entity the route delivers to.
func (r *Route) Consumer() kernel.EntityRef {
	return r.consumer
}

// Resource returns the resource the route carries.
func (r *Route) Resource() kernel.ResourceID {
	return r.resource
}

// Period returns the seconds between two departures.
func (r *Route) Period() float64 {
	return r.period
}

// Capacity returns the most units one trip may load.
func (r *Route) Capacity() int {
	return r.capacity
}

// Accumulator returns the seconds elapsed since the last departure.
func (r *Route) Accumulator() float64 {
	return r.accumulator
}

// InTransit reports whether a trip of the route is on the road.
func (r *Route) InTransit() bool {
	return r.inTransit
}

// Advance adds dt to the accumulator, capped at one period, and reports
// whether a trip is due.
func (r *Route) Advance(dt float64) bool {
	if dt > 0 {
		r.accumulator = min(r.accumulator+dt, r.period)
	}
	return r.accumulator >= r.period && !r.inTransit
}

// Fired restarts the period. dispatched marks the round trip as started;
// a period with nothing to ship still restarts the clock.
func (r *Route) Fired(dispatched bool) {
	r.accumulator = 0
	if dispatched {
		r.inTransit = true
	}
}

// Returned clears the in-transit flag once the empty leg is back.
func (r *Route) Returned() {
	r.inTransit = false
}

// Touches reports whether ref is either end of the route.
func (r *Route) Touches(ref kernel.EntityRef) bool {
	return r.supplier.IsEqual(ref) || r.consumer.IsEqual(ref)
}
