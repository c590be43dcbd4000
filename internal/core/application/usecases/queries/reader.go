// Package queries contains read-only views of the transport state.
// Handlers never change state and return plain response structs that the
// HTTP adapter serializes as they are.
package queries

import (
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
)

// TransportReader is the read side of the coordinator.
type TransportReader interface {
	Jobs() []coordinator.JobView
	QueueOrder() []job.ID
	Orders() []coordinator.OrderView
	Carriers() []coordinator.CarrierView
	Routes() []coordinator.RouteView
	Supply(resource kernel.ResourceID) []coordinator.SupplyView
}

var _ TransportReader = (*coordinator.Coordinator)(nil)

// Point is a position on the map.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func pointOf(p kernel.Position) Point {
	return Point{X: p.X(), Y: p.Y()}
}
