// Package commands contains the operations that change transport state.
// Every command is built through its constructor and checked again by its
// handler. Handlers talk to the coordinator through Transport.
package commands

import (
	"context"

	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/application/persistence"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/job"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/route"
	"logistics/internal/core/domain/services"
	"logistics/internal/core/ports"
)

type (
	// OrderIntake accepts and refreshes delivery orders.
	OrderIntake interface {
		AcceptDeliveryOrder(ctx context.Context, demand deliveryorder.Demand, target kernel.EntityRef) services.Result
		RefreshOrders(demands []deliveryorder.Demand) error
	}

	// Dispatcher starts carriers outside of order planning.
	Dispatcher interface {
		RequestTransport(source, target kernel.EntityRef, resource kernel.ResourceID) error
		AddRoute(supplier, consumer kernel.EntityRef, resource kernel.ResourceID, period float64, capacity int) (route.ID, error)
		RemoveRoute(id route.ID) bool
	}

	// WorldListener receives changes of the host world.
	WorldListener interface {
		EntityDestroyed(ctx context.Context, ref kernel.EntityRef) []*job.Job
		RoadNetworkChanged(ctx context.Context)
		FailJob(id job.ID) bool
	}

	// Simulation advances time.
	Simulation interface {
		Tick(ctx context.Context, dt float64) coordinator.TickReport
	}

	// Archive saves and loads the transport state.
	Archive interface {
		Save(ctx context.Context, store ports.SnapshotStore, slot string) error
		Load(ctx context.Context, store ports.SnapshotStore, slot string) (persistence.RestoreReport, error)
	}

	// Transport is everything the command handlers need from the coordinator.
	//
	// Example:
	//   c, _ := coordinator.New(settings, deps)
	//   var t commands.Transport = c
	Transport interface {
		OrderIntake
		Dispatcher
		WorldListener
		Simulation
		Archive
	}
)

var _ Transport = (*coordinator.Coordinator)(nil)
