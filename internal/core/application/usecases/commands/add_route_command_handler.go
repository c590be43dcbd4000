package commands

import (
	"context"

	"logistics/internal/core/domain/model/route"
)

type AddRouteCommandHandler struct {
	dispatcher Dispatcher
}

func NewAddRouteCommandHandler(dispatcher Dispatcher) AddRouteCommandHandler {
	return AddRouteCommandHandler{dispatcher: dispatcher}
}

// Handle registers the route and returns its id.
func (h AddRouteCommandHandler) Handle(_ context.Context, cmd AddRouteCommand) (route.ID, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}
	return h.dispatcher.AddRoute(cmd.Supplier(), cmd.Consumer(), cmd.Resource(), cmd.Period(), cmd.Capacity())
}
