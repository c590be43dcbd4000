package deliveryorder

import (
	"errors"
	"fmt"
	"slices"

	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrDeliveryOrderIsNotConstructed is returned when a DeliveryOrder was not
// created through NewDeliveryOrder or RestoreDeliveryOrder.
var ErrDeliveryOrderIsNotConstructed = errors.New("DeliveryOrder must be created via NewDeliveryOrder constructor")

// Demand is the external view of an order: what the market asks for and how
// much of it is still missing.
type Demand struct {
	OrderID      kernel.OrderID
	Resource     kernel.ResourceID
	ProductName  string
	Total        int
	Remaining    int
	PricePerUnit decimal.Decimal
	Accepted     bool
	// Destination is where the goods go. Refreshes that leave it empty keep
	// the destination already known.
	Destination  kernel.EntityRef
}

// Validate checks the fields every order needs.
func (d Demand) Validate() error {
	var errList []error
	if d.OrderID <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"order id", fmt.Errorf("%d is not greater than 0", d.OrderID)))
	}
	if err := d.Resource.Validate(); err != nil {
		errList = append(errList, err)
	}
	if d.Total < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"total", fmt.Errorf("%d is negative", d.Total)))
	}
	if d.Remaining < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"remaining", fmt.Errorf("%d is negative", d.Remaining)))
	}
	if d.PricePerUnit.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"price per unit", fmt.Errorf("%s is negative", d.PricePerUnit)))
	}
	return errors.Join(errList...)
}

// DeliveryOrder aggregates the demand for one resource at one destination and
// the jobs currently serving it.
//
// Invariants:
//   - remaining >= 0 and only decreases by delivered quantities, or is
//     replaced by a refresh
//   - reserved is the quantity held by jobs in flight, never negative
//   - status is recomputed from remaining and the job list after every change
type DeliveryOrder struct {
	id           kernel.OrderID
	resource     kernel.ResourceID
	productName  string
	total        int
	remaining    int
	reserved     int
	pricePerUnit decimal.Decimal
	status       Status
	accepted     bool
	destination  kernel.EntityRef
	jobIDs       []job.ID

	isConstructed bool
}

// NewDeliveryOrder creates an order from demand with no jobs.
func NewDeliveryOrder(d Demand) (*DeliveryOrder, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	o := &DeliveryOrder{
		id:            d.OrderID,
		isConstructed: true,
	}
	o.apply(d)
	return o, nil
}

// RestoreDeliveryOrder rebuilds a persisted order verbatim. An invalid status
// is recomputed from the other fields.
func RestoreDeliveryOrder(d Demand, reserved int, status Status, jobIDs []job.ID) (*DeliveryOrder, error) {
	o, err := NewDeliveryOrder(d)
	if err != nil {
		return nil, err
	}
	o.reserved = max(0, reserved)
	o.jobIDs = slices.Clone(jobIDs)
	if status.Validate() == nil {
		o.status = status
	} else {
		o.recomputeStatus()
	}
	return o, nil
}

// Validate reports whether o was built by a constructor.
func (o *DeliveryOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrDeliveryOrderIsNotConstructed
	}
	return nil
}

func (o *DeliveryOrder) ID() kernel.OrderID { return o.id }
func (o *DeliveryOrder) Resource() kernel.ResourceID { return o.resource }
func (o *DeliveryOrder) ProductName() string { return o.productName }
func (o *DeliveryOrder) Total() int { return o.total }
func (o *DeliveryOrder) Remaining() int { return o.remaining }
func (o *DeliveryOrder) Reserved() int { return o.reserved }
func (o *DeliveryOrder) PricePerUnit() decimal.Decimal { return o.pricePerUnit }
func (o *DeliveryOrder) Status() Status { return o.status }
func (o *DeliveryOrder) IsAccepted() bool { return o.accepted }
func (o *DeliveryOrder) Destination() kernel.EntityRef { return o.destination }

// JobIDs returns a copy of the ordered job id list.
func (o *DeliveryOrder) JobIDs() []job.ID {
	return slices.Clone(o.jobIDs)
}

// Outstanding is the demand not yet covered by jobs in flight.
func (o *DeliveryOrder) Outstanding() int {
	return max(0, o.remaining-o.reserved)
}

// HasJob reports whether id is in the job list.
func (o *DeliveryOrder) HasJob(id job.ID) bool {
	return slices.Contains(o.jobIDs, id)
}

// Demand returns the external view of o.
func (o *DeliveryOrder) Demand() Demand {
	return Demand{
		OrderID:      o.id,
		Resource:     o.resource,
		ProductName:  o.productName,
		Total:        o.total,
		Remaining:    o.remaining,
		PricePerUnit: o.pricePerUnit,
		Accepted:     o.accepted,
		Destination:  o.destination,
	}
}

func (o *DeliveryOrder) apply(d Demand) {
	o.resource = d.Resource
	o.productName = d.ProductName
	o.total = d.Total
	o.remaining = d.Remaining
	o.pricePerUnit = d.PricePerUnit
	o.accepted = d.Accepted
	if !d.Destination.IsNone() {
		o.destination = d.Destination
	}
	o.recomputeStatus()
}

func (o *DeliveryOrder) removeJob(id job.ID) bool {
	i := slices.Index(o.jobIDs, id)
	if i < 0 {
		return false
	}
	o.jobIDs = slices.Delete(o.jobIDs, i, i+1)
	return true
}

func (o *DeliveryOrder) recomputeStatus() {
	switch {
	case o.remaining <= 0:
		o.status = Completed
	case len(o.jobIDs) > 0:
		o.status = InTransport
	default:
		o.status = Open
	}
}
