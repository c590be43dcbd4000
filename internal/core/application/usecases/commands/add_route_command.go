package commands

import (
	"errors"
	"fmt"
	"math"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrAddRouteCommandIsNotConstructed = errors.New(
	"AddRouteCommand must be created via NewAddRouteCommand constructor",
)

// AddRouteCommand registers a recurring supply route. A zero capacity uses
// the consumer's carrier capacity.
type AddRouteCommand struct { //nolint:recvcheck //using for validation
	supplier kernel.EntityRef
	consumer kernel.EntityRef
	resource kernel.ResourceID
	period   float64
	capacity int

	guard guard.ConstructorGuard
}

func NewAddRouteCommand(
	supplier, consumer kernel.EntityRef,
	resource kernel.ResourceID,
	period float64,
	capacity int,
) (AddRouteCommand, error) {
	cmd := AddRouteCommand{
		supplier: supplier,
		consumer: consumer,
		resource: resource,
		period:   period,
		capacity: capacity,
		guard:    guard.NewConstructorGuard(),
	}

	var errList []error
	if supplier.IsNone() {
		errList = append(errList, errs.NewValueIsRequiredError("supplier"))
	}
	if consumer.IsNone() {
		errList = append(errList, errs.NewValueIsRequiredError("consumer"))
	}
	if err := resource.Validate(); err != nil {
		errList = append(errList, err)
	}
	if period <= 0 || math.IsInf(period, 0) || math.IsNaN(period) {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("period",
			fmt.Errorf("%v is not a positive number", period)))
	}
	if capacity < 0 {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("%d is negative", capacity)))
	}
	if err := errors.Join(errList...); err != nil {
		return AddRouteCommand{}, err
	}

	return cmd, nil
}

func (c AddRouteCommand) Validate() error {
	return c.guard.Validate(ErrAddRouteCommandIsNotConstructed)
}

func (c AddRouteCommand) Supplier() kernel.EntityRef { return c.supplier }
func (c AddRouteCommand) Consumer() kernel.EntityRef { return c.consumer }
func (c AddRouteCommand) Resource() kernel.ResourceID { return c.resource }
func (c AddRouteCommand) Period() float64 { return c.period }
func (c AddRouteCommand) Capacity() int { return c.capacity }
