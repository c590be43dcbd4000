package memworld_test

import (
	"testing"

	"logistics/internal/adapters/out/memworld"
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory(t *testing.T) {
	t.Run("should consume at most what is held", func(t *testing.T) {
		inv := memworld.NewInventory(map[kernel.ResourceID]int{"wood": 5, "stone": 0})

		assert.Equal(t, 3, inv.Consume("wood", 3))
		assert.Equal(t, 2, inv.Consume("wood", 10))
		assert.Equal(t, 0, inv.Get("wood"))
		assert.Empty(t, inv.Snapshot())
	})

	t.Run("should ignore non-positive additions", func(t *testing.T) {
		inv := memworld.NewInventory(nil)

		inv.Add("wood", -4)
		inv.Add("wood", 0)
		inv.Add("wood", 2)

		assert.Equal(t, map[kernel.ResourceID]int{"wood": 2}, inv.Snapshot())
	})
}

func TestWorld(t *testing.T) {
	t.Run("should list holders in placement order", func(t *testing.T) {
		w := memworld.NewWorld()
		b1, err := w.AddBuilding("mill", kernel.MustNewPosition(0, 0), 0, map[kernel.ResourceID]int{"flour": 5})
		require.NoError(t, err)
		_, err = w.AddBuilding("farm", kernel.MustNewPosition(10, 0), 0, map[kernel.ResourceID]int{"wheat": 5})
		require.NoError(t, err)
		b3, err := w.AddBuilding("depot", kernel.MustNewPosition(20, 0), 0, map[kernel.ResourceID]int{"flour": 1})
		require.NoError(t, err)
		w.AddCity("town", kernel.MustNewPosition(30, 0))

		holders := w.Holding("flour")

		require.Len(t, holders, 2)
		assert.Equal(t, b1.Ref(), holders[0].Ref())
		assert.Equal(t, b3.Ref(), holders[1].Ref())
	})

	t.Run("should expose cities without inventory", func(t *testing.T) {
		w := memworld.NewWorld()
		city := w.AddCity("town", kernel.MustNewPosition(1, 1))

		got, ok := w.Lookup(city.Ref())

		require.True(t, ok)
		assert.Nil(t, got.Inventory())
		assert.True(t, city.IsCity())
	})

	t.Run("should forget removed buildings", func(t *testing.T) {
		w := memworld.NewWorld()
		b, err := w.AddBuilding("mill", kernel.MustNewPosition(0, 0), 0, nil)
		require.NoError(t, err)

		require.NoError(t, w.Remove(b.Ref()))

		_, ok := w.Lookup(b.Ref())
		assert.False(t, ok)
		require.ErrorIs(t, w.Remove(b.Ref()), memworld.ErrBuildingNotFound)
	})

	t.Run("should open the readiness gate once", func(t *testing.T) {
		w := memworld.NewWorld()
		select {
		case <-w.Ready():
			t.Fatal("world must not start ready")
		default:
		}

		w.MarkReady()
		w.MarkReady()

		_, open := <-w.Ready()
		assert.False(t, open)
	})
}

func TestWorld_Populate(t *testing.T) {
	t.Run("should place buildings and cities", func(t *testing.T) {
		w := memworld.NewWorld()

		err := w.Populate([]memworld.Seed{
			{Name: "Bakery", Kind: "building", X: 0, Y: 0, CarrierCapacity: 8, Stock: map[string]int{"bread": 40}},
			{Name: "Springfield", Kind: "city", X: 320, Y: 0},
		})

		require.NoError(t, err)
		bakery, ok := w.FindByName("bakery")
		require.True(t, ok)
		assert.Equal(t, 8, bakery.CarrierCapacity())
		assert.Equal(t, 40, bakery.Stock().Get("bread"))
		town, ok := w.FindByName("Springfield")
		require.True(t, ok)
		assert.True(t, town.IsCity())
	})

	t.Run("should place nothing when a seed is invalid", func(t *testing.T) {
		w := memworld.NewWorld()

		err := w.Populate([]memworld.Seed{
			{Name: "Bakery", Kind: "building", Stock: map[string]int{"bread": 40}},
			{Name: "Ghost", Kind: "castle", Stock: map[string]int{"": -1}},
		})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Empty(t, w.Buildings())
	})
}

func TestGridRoads(t *testing.T) {
	t.Run("should turn at the corner", func(t *testing.T) {
		g := memworld.NewGridRoads(32)

		wps, ok := g.Route(kernel.MustNewPosition(0, 0), kernel.MustNewPosition(64, 96))

		require.True(t, ok)
		assert.Equal(t, []kernel.Position{kernel.MustNewPosition(64, 0)}, wps)
	})

	t.Run("should not need waypoints on a straight street", func(t *testing.T) {
		g := memworld.NewGridRoads(32)

		wps, ok := g.Route(kernel.MustNewPosition(0, 0), kernel.MustNewPosition(64, 0))

		require.True(t, ok)
		assert.Empty(t, wps)
	})

	t.Run("should report closed tiles as unreachable", func(t *testing.T) {
		g := memworld.NewGridRoads(32)
		g.Close(kernel.MustNewPosition(70, 5))

		_, ok := g.Route(kernel.MustNewPosition(0, 0), kernel.MustNewPosition(64, 96))
		assert.False(t, ok)

		_, ok = g.Cost(kernel.MustNewPosition(0, 0), kernel.MustNewPosition(64, 96),
			decimal.NewFromInt(1), 1, 32, decimal.Zero)
		assert.False(t, ok)

		g.Open(kernel.MustNewPosition(70, 5))
		_, ok = g.Route(kernel.MustNewPosition(0, 0), kernel.MustNewPosition(64, 96))
		assert.True(t, ok)
	})

	t.Run("should price by manhattan tiles", func(t *testing.T) {
		g := memworld.NewGridRoads(32)

		cost, ok := g.Cost(kernel.MustNewPosition(0, 0), kernel.MustNewPosition(64, 96),
			decimal.RequireFromString("0.5"), 10, 32, decimal.NewFromInt(5))

		require.True(t, ok)
		assert.True(t, cost.Equal(decimal.NewFromInt(30)), cost.String())
	})
}

func TestEconomy(t *testing.T) {
	e := memworld.NewEconomy(decimal.NewFromInt(100))

	e.Charge(decimal.NewFromInt(30), "carrier")
	e.Credit(decimal.NewFromInt(12), "delivery")
	e.Credit(decimal.Zero, "nothing")

	assert.True(t, e.Balance().Equal(decimal.NewFromInt(82)))
	entries := e.Entries()
	require.Len(t, entries, 2)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(-30)))
	assert.Equal(t, "delivery", entries[1].Reason)
}
