package commands

import (
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrAcceptDeliveryOrderCommandIsNotConstructed = errors.New(
	"AcceptDeliveryOrderCommand must be created via NewAcceptDeliveryOrderCommand constructor",
)

// AcceptDeliveryOrderCommand asks for a market order to be accepted and
// planned toward target.
//
// Example:
//
//	cmd, err := NewAcceptDeliveryOrderCommand(7, "bread", "Bread for Westfield", 30, 30,
//	    decimal.NewFromInt(4), kernel.CityRef(westfield))
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type AcceptDeliveryOrderCommand struct { //nolint:recvcheck //using for validation
	demand deliveryorder.Demand
	target kernel.EntityRef

	guard guard.ConstructorGuard
}

// NewAcceptDeliveryOrderCommand validates the demand fields and the target.
func NewAcceptDeliveryOrderCommand(
	orderID kernel.OrderID,
	resource kernel.ResourceID,
	productName string,
	total, remaining int,
	pricePerUnit decimal.Decimal,
	target kernel.EntityRef,
) (AcceptDeliveryOrderCommand, error) {
	cmd := AcceptDeliveryOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDemand(deliveryorder.Demand{
			OrderID:      orderID,
			Resource:     resource,
			ProductName:  productName,
			Total:        total,
			Remaining:    remaining,
			PricePerUnit: pricePerUnit,
		}),
		cmd.setTarget(target),
	); err != nil {
		return AcceptDeliveryOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptDeliveryOrderCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDeliveryOrderCommandIsNotConstructed)
}

// Demand returns the market demand to accept.
func (c AcceptDeliveryOrderCommand) Demand() deliveryorder.Demand {
	return c.demand
}

// Target returns where the goods go.
func (c AcceptDeliveryOrderCommand) Target() kernel.EntityRef {
	return c.target
}

func (c *AcceptDeliveryOrderCommand) setDemand(d deliveryorder.Demand) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.Remaining > d.Total {
		return errs.NewValueIsInvalidErrorWithCause("remaining",
			fmt.Errorf("%d exceeds total %d", d.Remaining, d.Total))
	}

	c.demand = d
	return nil
}

func (c *AcceptDeliveryOrderCommand) setTarget(target kernel.EntityRef) error {
	if target.IsNone() {
		return errs.NewValueIsRequiredError("target")
	}

	c.target = target
	return nil
}
