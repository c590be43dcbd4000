package services

import (
	"logistics/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// StraightLineCost prices a trip as tiles x costPerTile x quantity + fixedCost,
// where tiles is the Euclidean distance in map tiles. The result is rounded
// to cents.
func StraightLineCost(
	from, to kernel.Position,
	costPerTile decimal.Decimal,
	quantity int,
	tileSize float64,
	fixedCost decimal.Decimal,
) decimal.Decimal {
	tiles := decimal.NewFromFloat(from.TileDistance(to, tileSize))
	return tiles.
		Mul(costPerTile).
		Mul(decimal.NewFromInt(int64(quantity))).
		Add(fixedCost).
		Round(2)
}
