package commands

import (
	"errors"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrDestroyEntityCommandIsNotConstructed = errors.New(
	"DestroyEntityCommand must be created via NewDestroyEntityCommand constructor",
)

// DestroyEntityCommand tells the transport core that a building or city is gone.
type DestroyEntityCommand struct { //nolint:recvcheck //using for validation
	ref kernel.EntityRef

	guard guard.ConstructorGuard
}

func NewDestroyEntityCommand(ref kernel.EntityRef) (DestroyEntityCommand, error) {
	if ref.IsNone() {
		return DestroyEntityCommand{}, errs.NewValueIsRequiredError("entity")
	}
	return DestroyEntityCommand{ref: ref, guard: guard.NewConstructorGuard()}, nil
}

func (c DestroyEntityCommand) Validate() error {
	return c.guard.Validate(ErrDestroyEntityCommandIsNotConstructed)
}

func (c DestroyEntityCommand) Ref() kernel.EntityRef { return c.ref }
