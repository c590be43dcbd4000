package services_test

import (
	"testing"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/domain/model/supply"
	"logistics/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func supplier(t *testing.T, resource kernel.ResourceID, available, reserved int, x float64) *supply.Record {
	t.Helper()
	r, err := supply.NewRecord(kernel.BuildingRef(kernel.NewUUID()), resource, kernel.MustNewPosition(x, 0), available, reserved)
	require.NoError(t, err)
	return r
}

func quantities(chunks []services.Chunk) []int {
	out := make([]int, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, c.Quantity)
	}
	return out
}

func TestSplit(t *testing.T) {
	t.Run("should fill suppliers in order with capacity-sized chunks", func(t *testing.T) {
		s1 := supplier(t, "grain", 25, 0, 0)
		s2 := supplier(t, "grain", 15, 0, 0)

		chunks := services.Split([]*supply.Record{s1, s2}, 30, 10)

		assert.Equal(t, []int{10, 10, 5, 5}, quantities(chunks))
		assert.Same(t, s1, chunks[2].Supplier)
		assert.Same(t, s2, chunks[3].Supplier)
		assert.Equal(t, 30, services.Total(chunks))
	})

	t.Run("should honor the given priority", func(t *testing.T) {
		s1 := supplier(t, "grain", 25, 0, 0)
		s2 := supplier(t, "grain", 15, 0, 0)

		chunks := services.Split([]*supply.Record{s2, s1}, 30, 10)

		assert.Equal(t, []int{10, 5, 10, 5}, quantities(chunks))
		assert.Same(t, s2, chunks[0].Supplier)
	})

	t.Run("should respect existing reservations", func(t *testing.T) {
		s1 := supplier(t, "grain", 25, 20, 0)

		chunks := services.Split([]*supply.Record{s1}, 30, 10)

		assert.Equal(t, []int{5}, quantities(chunks))
	})

	t.Run("should return nothing for degenerate input", func(t *testing.T) {
		s1 := supplier(t, "grain", 25, 0, 0)

		assert.Empty(t, services.Split([]*supply.Record{s1}, 0, 10))
		assert.Empty(t, services.Split([]*supply.Record{s1}, 10, 0))
		assert.Empty(t, services.Split(nil, 10, 10))
	})

	t.Run("should never exceed capacity", func(t *testing.T) {
		for _, capacity := range []int{1, 3, 7, 10, 64} {
			chunks := services.Split([]*supply.Record{
				supplier(t, "grain", 33, 0, 0),
				supplier(t, "grain", 17, 2, 0),
			}, 45, capacity)

			for _, c := range chunks {
				assert.LessOrEqual(t, c.Quantity, capacity)
				assert.Positive(t, c.Quantity)
			}
			assert.Equal(t, 45, services.Total(chunks))
		}
	})
}

func TestStraightLineCost(t *testing.T) {
	from := kernel.MustNewPosition(0, 0)
	to := kernel.MustNewPosition(96, 128)

	got := services.StraightLineCost(from, to, decimal.RequireFromString("0.5"), 10, 32, decimal.NewFromInt(20))

	// 160px / 32 = 5 tiles; 5 * 0.5 * 10 + 20
	assert.True(t, got.Equal(decimal.NewFromInt(45)), got.String())
}
