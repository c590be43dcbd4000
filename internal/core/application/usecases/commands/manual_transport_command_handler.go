package commands

import "context"

// ManualTransportCommandHandler queues one-off loads. The load leaves on the
// next tick.
type ManualTransportCommandHandler struct {
	dispatcher Dispatcher
}

func NewManualTransportCommandHandler(dispatcher Dispatcher) ManualTransportCommandHandler {
	return ManualTransportCommandHandler{dispatcher: dispatcher}
}

func (h ManualTransportCommandHandler) Handle(_ context.Context, cmd ManualTransportCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.dispatcher.RequestTransport(cmd.Source(), cmd.Target(), cmd.Resource())
}
