package deliveryorder

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
)

// Book owns every DeliveryOrder, keyed by order id. Like the job ledger it
// does no locking of its own.
type Book struct {
	orders map[kernel.OrderID]*DeliveryOrder
}

// NewBook returns an empty book.
func NewBook() *Book {
	return &Book{orders: make(map[kernel.OrderID]*DeliveryOrder)}
}

// Refresh upserts each demand. Existing orders keep their job list and
// reservation; their totals, remaining, price and accepted flag are replaced.
// Invalid demands are skipped and reported in the joined error.
func (b *Book) Refresh(demands []Demand) error {
	var errList []error
	for _, d := range demands {
		if err := d.Validate(); err != nil {
			errList = append(errList, fmt.Errorf("order %d: %w", d.OrderID, err))
			continue
		}
		if o, ok := b.orders[d.OrderID]; ok {
			o.apply(d)
			continue
		}
		o, err := NewDeliveryOrder(d)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		b.orders[d.OrderID] = o
	}
	return errors.Join(errList...)
}

// EnsureDeliveryOrder returns the order for d.OrderID, creating it from d if
// it does not exist yet. An existing order is returned unchanged.
func (b *Book) EnsureDeliveryOrder(d Demand) (*DeliveryOrder, error) {
	if o, ok := b.orders[d.OrderID]; ok {
		return o, nil
	}
	o, err := NewDeliveryOrder(d)
	if err != nil {
		return nil, err
	}
	b.orders[d.OrderID] = o
	return o, nil
}

// OnJobCompleted removes the job from its order, releases its reservation
// and decrements remaining by delivered (floored at 0).
func (b *Book) OnJobCompleted(j *job.Job, delivered int) {
	o, ok := b.orderOf(j)
	if !ok {
		return
	}
	if o.removeJob(j.ID()) {
		o.reserved = max(0, o.reserved-j.Quantity())
	}
	o.remaining = max(0, o.remaining-max(0, delivered))
	o.recomputeStatus()
}

// OnJobFailed removes the job from its order and releases its reservation.
// Remaining is untouched, so the quantity becomes plannable again.
func (b *Book) OnJobFailed(j *job.Job) {
	o, ok := b.orderOf(j)
	if !ok {
		return
	}
	if o.removeJob(j.ID()) {
		o.reserved = max(0, o.reserved-j.Quantity())
	}
	o.recomputeStatus()
}

// RegisterRestored inserts o as-is, replacing any order with the same id.
func (b *Book) RegisterRestored(o *DeliveryOrder) error {
	if err := o.Validate(); err != nil {
		return err
	}
	b.orders[o.id] = o
	return nil
}

// MarkInTransport flags an open order as served by jobs.
func (b *Book) MarkInTransport(id kernel.OrderID) bool {
	o, ok := b.orders[id]
	if !ok || o.status == Completed {
		return false
	}
	o.status = InTransport
	return true
}

// Reserve adds qty to the order's in-flight reservation.
func (b *Book) Reserve(id kernel.OrderID, qty int) bool {
	o, ok := b.orders[id]
	if !ok || qty <= 0 {
		return false
	}
	o.reserved += qty
	return true
}

// AppendJob adds jobID to the order's job list.
func (b *Book) AppendJob(id kernel.OrderID, jobID job.ID) bool {
	o, ok := b.orders[id]
	if !ok || o.HasJob(jobID) {
		return false
	}
	o.jobIDs = append(o.jobIDs, jobID)
	o.recomputeStatus()
	return true
}

// Accept marks the order as accepted by the player, making it eligible for
// automatic replanning.
func (b *Book) Accept(id kernel.OrderID) bool {
	o, ok := b.orders[id]
	if !ok {
		return false
	}
	o.accepted = true
	return true
}

// SetDestination points the order at ref. A none ref is ignored.
func (b *Book) SetDestination(id kernel.OrderID, ref kernel.EntityRef) bool {
	o, ok := b.orders[id]
	if !ok || ref.IsNone() {
		return false
	}
	o.destination = ref
	return true
}

// Get returns the order with the given id.
func (b *Book) Get(id kernel.OrderID) (*DeliveryOrder, bool) {
	o, ok := b.orders[id]
	return o, ok
}

// Orders returns every order sorted by id.
func (b *Book) Orders() []*DeliveryOrder {
	out := make([]*DeliveryOrder, 0, len(b.orders))
	for _, o := range b.orders {
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, c *DeliveryOrder) int {
		return cmp.Compare(a.id, c.id)
	})
	return out
}

// Accepted returns accepted, incomplete orders with outstanding demand,
// sorted by id.
func (b *Book) Accepted() []*DeliveryOrder {
	var out []*DeliveryOrder
	for _, o := range b.Orders() {
		if o.accepted && o.status != Completed && o.Outstanding() > 0 {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of orders.
func (b *Book) Len() int {
	return len(b.orders)
}

// Clear removes every order.
func (b *Book) Clear() {
	b.orders = make(map[kernel.OrderID]*DeliveryOrder)
}

func (b *Book) orderOf(j *job.Job) (*DeliveryOrder, bool) {
	if j == nil || j.OrderID().IsNone() {
		return nil, false
	}
	o, ok := b.orders[j.OrderID()]
	return o, ok
}
