package commands

import (
	"context"
	"errors"

	"logistics/internal/core/domain/services"
)

// AcceptDeliveryOrderCommandHandler accepts orders on the player's behalf.
// A rejected plan is not an error: the result carries the reason.
type AcceptDeliveryOrderCommandHandler struct {
	orders OrderIntake
}

func NewAcceptDeliveryOrderCommandHandler(orders OrderIntake) AcceptDeliveryOrderCommandHandler {
	return AcceptDeliveryOrderCommandHandler{orders: orders}
}

// Handle plans the order. Only an invalid command or a done context yields
// an error.
func (h AcceptDeliveryOrderCommandHandler) Handle(
	ctx context.Context,
	cmd AcceptDeliveryOrderCommand,
) (services.Result, error) {
	if err := cmd.Validate(); err != nil {
		return services.Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return services.Result{}, errors.Join(ErrCommandCancelled, err)
	}

	return h.orders.AcceptDeliveryOrder(ctx, cmd.Demand(), cmd.Target()), nil
}
