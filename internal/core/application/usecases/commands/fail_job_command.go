package commands

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/job"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var ErrFailJobCommandIsNotConstructed = errors.New(
	"FailJobCommand must be created via NewFailJobCommand constructor",
)

// FailJobCommand cancels a live job, as when its carrier breaks down.
type FailJobCommand struct { //nolint:recvcheck //using for validation
	id job.ID

	guard guard.ConstructorGuard
}

func NewFailJobCommand(id job.ID) (FailJobCommand, error) {
	if id <= 0 {
		return FailJobCommand{}, errs.NewValueIsInvalidErrorWithCause("job id",
			fmt.Errorf("%d is not greater than 0", id))
	}
	return FailJobCommand{id: id, guard: guard.NewConstructorGuard()}, nil
}

func (c FailJobCommand) Validate() error {
	return c.guard.Validate(ErrFailJobCommandIsNotConstructed)
}

func (c FailJobCommand) ID() job.ID { return c.id }

type FailJobCommandHandler struct {
	world WorldListener
}

func NewFailJobCommandHandler(world WorldListener) FailJobCommandHandler {
	return FailJobCommandHandler{world: world}
}

// Handle fails the job. Jobs that already finished are reported as not found.
func (h FailJobCommandHandler) Handle(_ context.Context, cmd FailJobCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !h.world.FailJob(cmd.ID()) {
		return errs.NewObjectNotFoundError("job id", cmd.ID())
	}
	return nil
}
