package coordinator

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
)

// AddRoute registers a recurring supply route and returns its id. A zero
// capacity uses the consumer's carrier capacity.
func (c *Coordinator) AddRoute(supplier, consumer kernel.EntityRef, resource kernel.ResourceID, period float64, capacity int) (route.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkEndpoints(supplier, consumer); err != nil {
		return 0, err
	}
	if capacity == 0 {
		dst, _ := c.registry.Lookup(consumer)
		capacity = c.capacityOf(dst)
	}

	r, err := route.NewRoute(c.lastRouteID+1, supplier, consumer, resource, period, capacity)
	if err != nil {
		return 0, err
	}
	c.lastRouteID = r.ID()
	c.routes[r.ID()] = r
	return r.ID(), nil
}

// RemoveRoute deletes a route. A carrier already on the road finishes its trip.
func (c *Coordinator) RemoveRoute(id route.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.routes[id]; !ok {
		return false
	}
	delete(c.routes, id)
	return true
}
