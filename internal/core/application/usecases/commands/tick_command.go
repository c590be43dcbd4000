package commands

import (
	"errors"
	"fmt"
	"math"

	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrTickCommandIsNotConstructed = errors.New(
		"TickCommand must be created via NewTickCommand constructor",
	)
)

// TickCommand advances the simulation by dt seconds.
//
// Example:
//
//	cmd, _ := NewTickCommand(time.Second.Seconds())
//	handler := NewTickCommandHandler(coord)
//
//	ticker := time.NewTicker(time.Second)
//	for range ticker.C {
//	    if _, err := handler.Handle(ctx, cmd); err != nil {
//	        log.Printf("tick failed: %v", err)
//	    }
//	}
type TickCommand struct {
	dt float64

	guard guard.ConstructorGuard
}

// NewTickCommand rejects negative and non-finite steps. A zero step still
// dispatches queued work without moving carriers.
func NewTickCommand(dt float64) (TickCommand, error) {
	if dt < 0 || math.IsInf(dt, 0) || math.IsNaN(dt) {
		return TickCommand{}, errs.NewValueIsInvalidErrorWithCause("dt",
			fmt.Errorf("%v is not a finite, non-negative number", dt))
	}
	return TickCommand{dt: dt, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c *TickCommand) Validate() error {
	return c.guard.Validate(ErrTickCommandIsNotConstructed)
}

func (c *TickCommand) Dt() float64 { return c.dt }
