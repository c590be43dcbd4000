package coordinator_test

import (
	"context"
	"testing"

	"logistics/internal/adapters/out/memworld"
	"logistics/internal/core/application/coordinator"
	"logistics/internal/core/domain/model/deliveryorder"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func testSettings() coordinator.Settings {
	return coordinator.Settings{
		CarrierCapacity:  10,
		CarrierSpeed:     100,
		CostPerTile:      decimal.NewFromInt(1),
		FixedCarrierCost: decimal.NewFromInt(5),
		TileSize:         32,
	}
}

type fixture struct {
	world   *memworld.World
	economy *memworld.Economy
	coord   *coordinator.Coordinator
}

type fixtureOptions struct {
	roads    ports.RoadNetwork
	registry ports.BuildingRegistry
	metrics  ports.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, fixtureOptions{})
}

func newFixtureWith(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	w := memworld.NewWorld()
	w.MarkReady()
	eco := memworld.NewEconomy(decimal.NewFromInt(1000))

	registry := opts.registry
	if registry == nil {
		registry = w
	}
	roads := opts.roads
	if roads == nil {
		roads = memworld.StraightRoads{}
	}

	c, err := coordinator.New(testSettings(), coordinator.Dependencies{
		Registry: registry,
		Roads:    roads,
		Economy:  eco,
		Metrics:  opts.metrics,
	})
	require.NoError(t, err)
	require.NoError(t, c.Attach(t.Context(), w))

	return &fixture{world: w, economy: eco, coord: c}
}

func (f *fixture) building(t *testing.T, name string, x, y float64, stock map[kernel.ResourceID]int) *memworld.Building {
	t.Helper()
	b, err := f.world.AddBuilding(name, kernel.MustNewPosition(x, y), 0, stock)
	require.NoError(t, err)
	return b
}

func (f *fixture) city(name string, x, y float64) *memworld.Building {
	return f.world.AddCity(name, kernel.MustNewPosition(x, y))
}

func (f *fixture) tick(n int) coordinator.TickReport {
	var total coordinator.TickReport
	for range n {
		r := f.coord.Tick(context.Background(), 1)
		total.Arrived += r.Arrived
		total.Dispatched += r.Dispatched
		total.Faults += r.Faults
	}
	return total
}

func breadOrder(id kernel.OrderID, qty int) deliveryorder.Demand {
	return deliveryorder.Demand{
		OrderID:      id,
		Resource:     "bread",
		ProductName:  "Bread for the market",
		Total:        qty,
		Remaining:    qty,
		PricePerUnit: decimal.NewFromInt(2),
	}
}

type memStore struct {
	slots map[string]snapshot.Snapshot
}

func newMemStore() *memStore {
	return &memStore{slots: make(map[string]snapshot.Snapshot)}
}

func (s *memStore) Save(_ context.Context, slot string, snap snapshot.Snapshot) error {
	s.slots[slot] = snap
	return nil
}

func (s *memStore) Load(_ context.Context, slot string) (snapshot.Snapshot, error) {
	snap, ok := s.slots[slot]
	if !ok {
		return snapshot.Snapshot{}, errs.NewObjectNotFoundError("slot", slot)
	}
	return snap, nil
}

func (s *memStore) List(context.Context) ([]string, error) {
	var out []string
	for name := range s.slots {
		out = append(out, name)
	}
	return out, nil
}
