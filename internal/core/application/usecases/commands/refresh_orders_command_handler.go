package commands

import "context"

type RefreshOrdersCommandHandler struct {
	orders OrderIntake
}

func NewRefreshOrdersCommandHandler(orders OrderIntake) RefreshOrdersCommandHandler {
	return RefreshOrdersCommandHandler{orders: orders}
}

// Handle upserts the demands. Accepted orders are replanned on the next tick.
func (h RefreshOrdersCommandHandler) Handle(_ context.Context, cmd RefreshOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.orders.RefreshOrders(cmd.Demands())
}
