package commands

import (
	"context"
	"errors"

	"logistics/internal/pkg/guard"
)

var ErrRoadNetworkChangedCommandIsNotConstructed = errors.New(
	"RoadNetworkChangedCommand must be created via NewRoadNetworkChangedCommand constructor",
)

// RoadNetworkChangedCommand reroutes every carrier after roads were built or
// demolished.
type RoadNetworkChangedCommand struct {
	guard guard.ConstructorGuard
}

func NewRoadNetworkChangedCommand() RoadNetworkChangedCommand {
	return RoadNetworkChangedCommand{guard: guard.NewConstructorGuard()}
}

func (c RoadNetworkChangedCommand) Validate() error {
	return c.guard.Validate(ErrRoadNetworkChangedCommandIsNotConstructed)
}

type RoadNetworkChangedCommandHandler struct {
	world WorldListener
}

func NewRoadNetworkChangedCommandHandler(world WorldListener) RoadNetworkChangedCommandHandler {
	return RoadNetworkChangedCommandHandler{world: world}
}

func (h RoadNetworkChangedCommandHandler) Handle(ctx context.Context, cmd RoadNetworkChangedCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	h.world.RoadNetworkChanged(ctx)
	return nil
}
