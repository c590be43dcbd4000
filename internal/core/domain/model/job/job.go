package job

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrJobIsNotConstructed is returned when a Job was not created through NewJob or RestoreJob.
var ErrJobIsNotConstructed = errors.New("Job must be created via NewJob constructor")

// ID identifies a job. IDs are allocated by the Ledger and never reused.
type ID int64

// Draft carries everything the planner decides about a job before the ledger
// gives it an identity.
type Draft struct {
	OrderID        kernel.OrderID
	Resource       kernel.ResourceID
	Quantity       int
	Cost           decimal.Decimal
	PricePerUnit   decimal.Decimal
	StartPosition  kernel.Position
	TargetPosition kernel.Position
	Supplier       kernel.EntityRef
	Target         kernel.EntityRef
}

// Job is one carrier-sized delivery unit: a quantity of a single resource
// moved from a supplier to a target.
//
// Job follows these invariants:
//   - Quantity is always positive
//   - Status only changes through the Ledger, following the Status state machine
//   - A carrier is recorded only while the job is InTransit
//
// Supplier and target are EntityRef values, not live objects, so a job never
// keeps a destroyed building reachable.
type Job struct {
	id             ID
	orderID        kernel.OrderID
	resource       kernel.ResourceID
	quantity       int
	cost           decimal.Decimal
	pricePerUnit   decimal.Decimal
	startPosition  kernel.Position
	targetPosition kernel.Position
	supplier       kernel.EntityRef
	target         kernel.EntityRef
	status         Status
	carrier        *kernel.UUID
	isConstructed  bool
}

// NewJob validates d and returns a Planned job with identifier id.
//
// Example:
//
//	j, err := job.NewJob(ledger.NextID(), job.Draft{
//	    Resource: "grain",
//	    Quantity: 10,
//	    Supplier: kernel.BuildingRef(farmKey),
//	    Target:   kernel.CityRef(cityKey),
//	})
func NewJob(id ID, d Draft) (*Job, error) {
	j := &Job{
		status:        Planned,
		isConstructed: true,
	}

	if err := errors.Join(
		j.setID(id),
		j.setDraft(d),
	); err != nil {
		return nil, err
	}

	return j, nil
}

// RestoreJob rebuilds a job from persisted state. The status must be live;
// terminal jobs are never stored.
func RestoreJob(id ID, d Draft, status Status, carrier *kernel.UUID) (*Job, error) {
	j, err := NewJob(id, d)
	if err != nil {
		return nil, err
	}

	if !status.IsLive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%s is not a restorable job status", status))
	}
	j.status = status

	if carrier != nil && status == InTransit {
		c := *carrier
		j.carrier = &c
	}
	return j, nil
}

// Validate reports whether j was built by a constructor.
func (j *Job) Validate() error {
	if j == nil || !j.isConstructed {
		return ErrJobIsNotConstructed
	}
	return nil
}

// ID returns the ledger id of the job.
func (j *Job) ID() ID {
	return j.id
}

// OrderID returns the delivery order the job serves.
func (j *Job) OrderID() kernel.OrderID {
	return j.orderID
}

// Resource returns the resource being moved.
func (j *Job) Resource() kernel.ResourceID {
	return j.resource
}

// Quantity returns the number of units loaded for the job.
func (j *Job) Quantity() int {
	return j.quantity
}

// Cost returns the transport cost charged when the job is dispatched.
func (j *Job) Cost() decimal.Decimal {
	return j.cost
}

// PricePerUnit returns the price the consumer pays per delivered unit.
func (j *Job) PricePerUnit() decimal.Decimal {
	return j.pricePerUnit
}

// StartPosition returns where the cargo is picked up.
func (j *Job) StartPosition() kernel.Position {
	return j.startPosition
}

// TargetPosition returns where the cargo is dropped off.
func (j *Job) TargetPosition() kernel.Position {
	return j.targetPosition
}

// Supplier returns the entity the cargo is taken from.
func (j *Job) Supplier() kernel.EntityRef {
	return j.supplier
}

// Target returns the entity receiving the cargo.
func (j *Job) Target() kernel.EntityRef {
	return j.target
}

// Status returns the lifecycle state of the job.
func (j *Job) Status() Status {
	return j.status
}

// Carrier returns the carrier executing the job, or nil when none is assigned.
func (j *Job) Carrier() *kernel.UUID {
	if j.carrier == nil {
		return nil
	}
	c := *j.carrier
	return &c
}

// Value is the agreed revenue of the job: price per unit times quantity.
func (j *Job) Value() decimal.Decimal {
	return j.pricePerUnit.Mul(decimal.NewFromInt(int64(j.quantity)))
}

// Touches reports whether ref is the supplier or the target of the job.
func (j *Job) Touches(ref kernel.EntityRef) bool {
	return j.supplier.IsEqual(ref) || j.target.IsEqual(ref)
}

// Draft returns the planner-facing attributes of the job.
func (j *Job) Draft() Draft {
	return Draft{
		OrderID:        j.orderID,
		Resource:       j.resource,
		Quantity:       j.quantity,
		Cost:           j.cost,
		PricePerUnit:   j.pricePerUnit,
		StartPosition:  j.startPosition,
		TargetPosition: j.targetPosition,
		Supplier:       j.supplier,
		Target:         j.target,
	}
}

func (j *Job) transition(next func(Status) (Status, error)) error {
	s, err := next(j.status)
	if err != nil {
		return err
	}
	j.status = s
	return nil
}

func (j *Job) setID(id ID) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("job id", fmt.Errorf("%d is not greater than 0", id))
	}
	j.id = id
	return nil
}

func (j *Job) setDraft(d Draft) error {
	var errList []error

	if err := d.Resource.Validate(); err != nil {
		errList = append(errList, err)
	}
	if d.Quantity <= 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"quantity", fmt.Errorf("%d is not greater than 0", d.Quantity)))
	}
	if d.OrderID < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"order id", fmt.Errorf("%d is negative", d.OrderID)))
	}
	if d.Cost.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"cost", fmt.Errorf("%s is negative", d.Cost)))
	}
	if d.PricePerUnit.IsNegative() {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"price per unit", fmt.Errorf("%s is negative", d.PricePerUnit)))
	}
	if err := errors.Join(errList...); err != nil {
		return err
	}

	j.orderID = d.OrderID
	j.resource = d.Resource
	j.quantity = d.Quantity
	j.cost = d.Cost
	j.pricePerUnit = d.PricePerUnit
	j.startPosition = d.StartPosition
	j.targetPosition = d.TargetPosition
	j.supplier = d.Supplier
	j.target = d.Target
	return nil
}
