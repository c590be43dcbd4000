package commands

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/route"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrRemoveRouteCommandIsNotConstructed = errors.New(
	"RemoveRouteCommand must be created via NewRemoveRouteCommand constructor",
)

type RemoveRouteCommand struct { //nolint:recvcheck //using for validation
	id route.ID

	guard guard.ConstructorGuard
}

func NewRemoveRouteCommand(id route.ID) (RemoveRouteCommand, error) {
	if id <= 0 {
		return RemoveRouteCommand{}, errs.NewValueIsInvalidErrorWithCause("route id",
			fmt.Errorf("%d is not greater than 0", id))
	}
	return RemoveRouteCommand{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (c RemoveRouteCommand) Validate() error {
	return c.guard.Validate(ErrRemoveRouteCommandIsNotConstructed)
}

func (c RemoveRouteCommand) ID() route.ID { return c.id }

type RemoveRouteCommandHandler struct {
	dispatcher Dispatcher
}

func NewRemoveRouteCommandHandler(dispatcher Dispatcher) RemoveRouteCommandHandler {
	return RemoveRouteCommandHandler{dispatcher: dispatcher}
}

// Handle removes the route. An unknown id is reported as not found.
func (h RemoveRouteCommandHandler) Handle(_ context.Context, cmd RemoveRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !h.dispatcher.RemoveRoute(cmd.ID()) {
		return errs.NewObjectNotFoundError("route id", cmd.ID())
	}
	return nil
}
