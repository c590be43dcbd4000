package ports

import (
	"logistics/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Inventory is the only view the transport core has of a container of goods.
type Inventory interface {
	// Get returns the quantity held of resource.
	Get(resource kernel.ResourceID) int

	// Add stores qty units of resource. Non-positive quantities are ignored.
	Add(resource kernel.ResourceID, qty int)

	// Consume removes up to qty units and returns how many were removed.
	Consume(resource kernel.ResourceID, qty int) int

	// Snapshot returns a copy of every resource with a positive quantity.
	Snapshot() map[kernel.ResourceID]int
}

// Building is a supplier or target on the map. Cities are buildings without
// an inventory: deliveries to them are sold, not stored.
type Building interface {
	Ref() kernel.EntityRef
	Position() kernel.Position

	// Inventory returns nil for entities that do not store goods.
	Inventory() Inventory

	// CarrierCapacity is the per-carrier load this building dispatches with,
	// or 0 to use the configured default.
	CarrierCapacity() int
}

// BuildingRegistry resolves entity references to live buildings.
type BuildingRegistry interface {
	Lookup(ref kernel.EntityRef) (Building, bool)

	// Holding lists inventory-bearing buildings with a positive quantity of
	// resource, in registration order.
	Holding(resource kernel.ResourceID) []Building
}

// RoadNetwork is the black-box pathfinder.
type RoadNetwork interface {
	// Route returns the waypoints between two positions, or false when the
	// positions are not connected.
	Route(from, to kernel.Position) ([]kernel.Position, bool)
}

// RouteCostFunc prices moving quantity units from one position to another.
// It returns false when no path exists; callers then fall back to the
// straight-line cost.
type RouteCostFunc func(
	from, to kernel.Position,
	costPerTile decimal.Decimal,
	quantity int,
	tileSize float64,
	fixedCost decimal.Decimal,
) (decimal.Decimal, bool)

// EconomyLedger is the player's balance.
type EconomyLedger interface {
	Charge(amount decimal.Decimal, reason string)
	Credit(amount decimal.Decimal, reason string)
}

// ServiceRegistry signals when the host's services are available. The
// coordinator waits for it once, before wiring itself up.
type ServiceRegistry interface {
	Ready() <-chan struct{}
}
