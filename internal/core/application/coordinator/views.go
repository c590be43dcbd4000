package coordinator

import (
	"maps"
	"slices"

	"logistics/internal/core/domain/model/carrier"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"

	"github.com/shopspring/decimal"
)

// JobView is a read-only copy of a live job.
type JobView struct {
	ID             job.ID
	OrderID        kernel.OrderID
	Resource       kernel.ResourceID
	Quantity       int
	Cost           decimal.Decimal
	PricePerUnit   decimal.Decimal
	Status         job.Status
	Supplier       kernel.EntityRef
	Target         kernel.EntityRef
	StartPosition  kernel.Position
	TargetPosition kernel.Position
	Carrier        *kernel.UUID
}

// OrderView is a read-only copy of a delivery order.
type OrderView struct {
	ID           kernel.OrderID
	Resource     kernel.ResourceID
	ProductName  string
	Total        int
	Remaining    int
	Reserved     int
	Outstanding  int
	PricePerUnit decimal.Decimal
	Status       deliveryorder.Status
	Accepted     bool
	Destination  kernel.EntityRef
	JobIDs       []job.ID
}

// CarrierView is a read-only copy of a carrier on the road.
type CarrierView struct {
	ID        kernel.UUID
	JobID     job.ID
	RouteID   route.ID
	Resource  kernel.ResourceID
	Quantity  int
	From      kernel.EntityRef
	To        kernel.EntityRef
	Position  kernel.Position
	Target    kernel.Position
	ReturnLeg bool
	Waypoints []kernel.Position
}

// RouteView is a read-only copy of a recurring route.
type RouteView struct {
	ID          route.ID
	Supplier    kernel.EntityRef
	Consumer    kernel.EntityRef
	Resource    kernel.ResourceID
	Period      float64
	Capacity    int
	Accumulator float64
	InTransit   bool
}

// SupplyView is a supplier record as of the last plan.
type SupplyView struct {
	ID        string
	Entity    kernel.EntityRef
	Resource  kernel.ResourceID
	Available int
	Reserved  int
	Free      int
}

// Supply lists the supply index records of resource in planning order. The
// index is rebuilt from live stock on every plan, so this shows what the
// last plan saw plus what it reserved.
func (c *Coordinator) Supply(resource kernel.ResourceID) []SupplyView {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := c.index.Suppliers(resource)
	out := make([]SupplyView, 0, len(records))
	for _, r := range records {
		out = append(out, SupplyView{
			ID:        r.ID(),
			Entity:    r.Entity(),
			Resource:  r.Resource(),
			Available: r.Available(),
			Reserved:  r.Reserved(),
			Free:      r.Free(),
		})
	}
	return out
}

// Jobs lists live jobs by id.
func (c *Coordinator) Jobs() []JobView {
	c.mu.Lock()
	defer c.mu.Unlock()

	jobs := c.ledger.Jobs()
	out := make([]JobView, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, jobView(j))
	}
	return out
}

// Job returns one live job.
func (c *Coordinator) Job(id job.ID) (JobView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	j, ok := c.ledger.Get(id)
	if !ok {
		return JobView{}, false
	}
	return jobView(j), true
}

// QueueOrder lists the ids of jobs waiting for a carrier, in dispatch order.
func (c *Coordinator) QueueOrder() []job.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ledger.QueueOrder()
}

// Orders lists delivery orders by id.
func (c *Coordinator) Orders() []OrderView {
	c.mu.Lock()
	defer c.mu.Unlock()

	orders := c.book.Orders()
	out := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView(o))
	}
	return out
}

// Order returns one delivery order.
func (c *Coordinator) Order(id kernel.OrderID) (OrderView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	o, ok := c.book.Get(id)
	if !ok {
		return OrderView{}, false
	}
	return orderView(o), true
}

// Carriers lists carriers in spawn order.
func (c *Coordinator) Carriers() []CarrierView {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]CarrierView, 0, len(c.carriers))
	for _, cr := range c.carriers {
		out = append(out, carrierView(cr))
	}
	return out
}

// Routes lists routes by id.
func (c *Coordinator) Routes() []RouteView {
	c.mu.Lock()
	defer c.mu.Unlock()

	routes := c.sortedRoutes()
	out := make([]RouteView, 0, len(routes))
	for _, r := range routes {
		out = append(out, RouteView{
			ID:          r.ID(),
			Supplier:    r.Supplier(),
			Consumer:    r.Consumer(),
			Resource:    r.Resource(),
			Period:      r.Period(),
			Capacity:    r.Capacity(),
			Accumulator: r.Accumulator(),
			InTransit:   r.InTransit(),
		})
	}
	return out
}

func (c *Coordinator) sortedRoutes() []*route.Route {
	out := make([]*route.Route, 0, len(c.routes))
	for _, id := range slices.Sorted(maps.Keys(c.routes)) {
		out = append(out, c.routes[id])
	}
	return out
}

func jobView(j *job.Job) JobView {
	return JobView{
		ID:             j.ID(),
		OrderID:        j.OrderID(),
		Resource:       j.Resource(),
		Quantity:       j.Quantity(),
		Cost:           j.Cost(),
		PricePerUnit:   j.PricePerUnit(),
		Status:         j.Status(),
		Supplier:       j.Supplier(),
		Target:         j.Target(),
		StartPosition:  j.StartPosition(),
		TargetPosition: j.TargetPosition(),
		Carrier:        j.Carrier(),
	}
}

func orderView(o *deliveryorder.DeliveryOrder) OrderView {
	return OrderView{
		ID:           o.ID(),
		Resource:     o.Resource(),
		ProductName:  o.ProductName(),
		Total:        o.Total(),
		Remaining:    o.Remaining(),
		Reserved:     o.Reserved(),
		Outstanding:  o.Outstanding(),
		PricePerUnit: o.PricePerUnit(),
		Status:       o.Status(),
		Accepted:     o.IsAccepted(),
		Destination:  o.Destination(),
		JobIDs:       o.JobIDs(),
	}
}

func carrierView(cr *carrier.Carrier) CarrierView {
	return CarrierView{
		ID:        cr.ID(),
		JobID:     cr.JobID(),
		RouteID:   cr.RouteID(),
		Resource:  cr.Resource(),
		Quantity:  cr.Quantity(),
		From:      cr.From(),
		To:        cr.To(),
		Position:  cr.Position(),
		Target:    cr.Target(),
		ReturnLeg: cr.IsReturnLeg(),
		Waypoints: cr.RemainingWaypoints(),
	}
}
