package commands

import (
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrManualTransportCommandIsNotConstructed = errors.New(
	"ManualTransportCommand must be created via NewManualTransportCommand constructor",
)

// ManualTransportCommand is a one-off load between two buildings. An empty
// resource moves whatever the source holds most of.
//
// Example:
//
//	cmd, err := NewManualTransportCommand(kernel.BuildingRef(farm), kernel.BuildingRef(mill), "wheat")
//	if err != nil {
//	    return err
//	}
//	return handler.Handle(ctx, cmd)
type ManualTransportCommand struct { //nolint:recvcheck //using for validation
	source   kernel.EntityRef
	target   kernel.EntityRef
	resource kernel.ResourceID

	guard guard.ConstructorGuard
}

func NewManualTransportCommand(source, target kernel.EntityRef, resource kernel.ResourceID) (ManualTransportCommand, error) {
	cmd := ManualTransportCommand{
		resource: resource,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(cmd.setSource(source), cmd.setTarget(target)); err != nil {
		return ManualTransportCommand{}, err
	}
	if source.IsEqual(target) {
		return ManualTransportCommand{}, errs.NewValueIsInvalidError("target must differ from source")
	}

	return cmd, nil
}

func (c ManualTransportCommand) Validate() error {
	return c.guard.Validate(ErrManualTransportCommandIsNotConstructed)
}

func (c ManualTransportCommand) Source() kernel.EntityRef { return c.source }
func (c ManualTransportCommand) Target() kernel.EntityRef { return c.target }
func (c ManualTransportCommand) Resource() kernel.ResourceID { return c.resource }

func (c *ManualTransportCommand) setSource(source kernel.EntityRef) error {
	if source.IsNone() {
		return errs.NewValueIsRequiredError("source")
	}
	c.source = source
	return nil
}

func (c *ManualTransportCommand) setTarget(target kernel.EntityRef) error {
	if target.IsNone() {
		return errs.NewValueIsRequiredError("target")
	}
	c.target = target
	return nil
}
