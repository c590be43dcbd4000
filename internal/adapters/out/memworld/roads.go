package memworld

import (
	"math"
	"sync"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"

	"github.com/shopspring/decimal"
)

var (
	_ ports.RoadNetwork = StraightRoads{}
	_ ports.RoadNetwork = (*GridRoads)(nil)
)

// StraightRoads connects everything by a straight line with no waypoints.
type StraightRoads struct{}

func (StraightRoads) Route(kernel.Position, kernel.Position) ([]kernel.Position, bool) {
	return nil, true
}

// GridRoads drives along the X axis first, then along Y, like a street grid.
// Tiles can be closed to cut the network; a trip whose corner tile is closed
// has no route.
type GridRoads struct {
	mu       sync.RWMutex
	tileSize float64
	closed   map[[2]int]struct{}
}

// NewGridRoads returns an open grid. A non-positive tile size is treated as 1.
func NewGridRoads(tileSize float64) *GridRoads {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &GridRoads{tileSize: tileSize, closed: make(map[[2]int]struct{})}
}

// Close blocks the tile containing p.
func (g *GridRoads) Close(p kernel.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed[g.tile(p)] = struct{}{}
}

// Open unblocks the tile containing p.
func (g *GridRoads) Open(p kernel.Position) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.closed, g.tile(p))
}

// Route returns the corner waypoint, or none when the trip is a straight
// axis-aligned line.
func (g *GridRoads) Route(from, to kernel.Position) ([]kernel.Position, bool) {
	corner := kernel.MustNewPosition(to.X(), from.Y())

	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range []kernel.Position{from, corner, to} {
		if _, blocked := g.closed[g.tile(p)]; blocked {
			return nil, false
		}
	}

	if corner.IsEqual(from) || corner.IsEqual(to) {
		return nil, true
	}
	return []kernel.Position{corner}, true
}

// Cost prices a trip by Manhattan tiles: tiles x costPerTile x quantity + fixedCost.
func (g *GridRoads) Cost(
	from, to kernel.Position,
	costPerTile decimal.Decimal,
	quantity int,
	tileSize float64,
	fixedCost decimal.Decimal,
) (decimal.Decimal, bool) {
	if _, ok := g.Route(from, to); !ok {
		return decimal.Zero, false
	}
	if tileSize <= 0 {
		tileSize = g.tileSize
	}
	tiles := (math.Abs(to.X()-from.X()) + math.Abs(to.Y()-from.Y())) / tileSize

	return decimal.NewFromFloat(tiles).
		Mul(costPerTile).
		Mul(decimal.NewFromInt(int64(quantity))).
		Add(fixedCost).
		Round(2), true
}

func (g *GridRoads) tile(p kernel.Position) [2]int {
	return [2]int{int(math.Floor(p.X() / g.tileSize)), int(math.Floor(p.Y() / g.tileSize))}
}
