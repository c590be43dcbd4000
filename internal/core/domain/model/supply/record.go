package supply

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
)

// SupplierID derives the stable supplier id of entity offering resource.
func SupplierID(entity kernel.EntityRef, resource kernel.ResourceID) string {
	return entity.Key().String() + ":" + string(resource)
}

// Record is one entity's offer of one resource: what it holds and how much of
// that is already promised to planned jobs.
type Record struct {
	id        string
	entity    kernel.EntityRef
	resource  kernel.ResourceID
	position  kernel.Position
	available int
	reserved  int
}

// NewRecord samples an offer. reserved is the base reservation held by jobs
// not yet dispatched; it is clamped to [0, available].
func NewRecord(
	entity kernel.EntityRef,
	resource kernel.ResourceID,
	position kernel.Position,
	available int,
	reserved int,
) (*Record, error) {
	var errList []error
	if entity.IsNone() {
		errList = append(errList, errs.NewValueIsRequiredError("entity"))
	}
	if err := resource.Validate(); err != nil {
		errList = append(errList, err)
	}
	if available < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
			"available", fmt.Errorf("%d is negative", available)))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}

	return &Record{
		id:        SupplierID(entity, resource),
		entity:    entity,
		resource:  resource,
		position:  position,
		available: available,
		reserved:  min(max(0, reserved), available),
	}, nil
}

// ID returns the supplier id, unique per entity and resource.
func (r *Record) ID() string {
	return r.id
}

// Entity returns the entity holding the stock.
func (r *Record) Entity() kernel.EntityRef {
	return r.entity
}

// Resource returns the offered resource.
func (r *Record) Resource() kernel.ResourceID {
	return r.resource
}

// Position returns the pickup position of the supplier.
func (r *Record) Position() kernel.Position {
	return r.position
}

// Available returns the units held when the record was sampled.
func (r *Record) Available() int {
	return r.available
}

// Reserved returns the units already promised to planned jobs.
func (r *Record) Reserved() int {
	return r.reserved
}

// Free is available minus reserved.
func (r *Record) Free() int {
	return r.available - r.reserved
}

func (r *Record) clone() *Record {
	c := *r
	return &c
}
