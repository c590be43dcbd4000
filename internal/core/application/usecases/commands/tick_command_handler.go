package commands

import (
	"context"

	"logistics/internal/core/application/coordinator"
)

// TickCommandHandler drives the simulation clock. It is called periodically
// by the tick job.
type TickCommandHandler struct {
	simulation Simulation
}

func NewTickCommandHandler(simulation Simulation) TickCommandHandler {
	return TickCommandHandler{simulation: simulation}
}

// Handle runs one tick. Faults inside the tick are isolated and counted in
// the report, not returned.
func (h *TickCommandHandler) Handle(ctx context.Context, cmd TickCommand) (coordinator.TickReport, error) {
	if err := cmd.Validate(); err != nil {
		return coordinator.TickReport{}, err
	}
	return h.simulation.Tick(ctx, cmd.Dt()), nil
}
