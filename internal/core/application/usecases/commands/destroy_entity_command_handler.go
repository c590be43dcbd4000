package commands

import (
	"context"

	"logistics/internal/core/domain/model/job"
)

// DestroyEntityCommandHandler fails every job touching the entity and drops
// its carriers and routes.
type DestroyEntityCommandHandler struct {
	world WorldListener
}

func NewDestroyEntityCommandHandler(world WorldListener) DestroyEntityCommandHandler {
	return DestroyEntityCommandHandler{world: world}
}

// Handle returns the ids of the failed jobs.
func (h DestroyEntityCommandHandler) Handle(ctx context.Context, cmd DestroyEntityCommand) ([]job.ID, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	failed := h.world.EntityDestroyed(ctx, cmd.Ref())
	ids := make([]job.ID, 0, len(failed))
	for _, j := range failed {
		ids = append(ids, j.ID())
	}
	return ids, nil
}
