package kernel

import (
	"fmt"
	"math"

	"logistics/internal/pkg/errs"
)

// Position is a point in world coordinates (pixels of the game map, not tiles).
// Unlike most value objects in this package the zero value is meaningful: it is
// the map origin, and snapshots decode missing coordinates to it.
type Position struct {
	x float64
	y float64
}

// NewPosition validates that both coordinates are finite.
func NewPosition(x, y float64) (Position, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Position{}, errs.NewValueIsInvalidErrorWithCause("x", fmt.Errorf("%v is not finite", x))
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return Position{}, errs.NewValueIsInvalidErrorWithCause("y", fmt.Errorf("%v is not finite", y))
	}
	return Position{x: x, y: y}, nil
}

// MustNewPosition is NewPosition for literals known to be finite. It panics otherwise.
func MustNewPosition(x, y float64) Position {
	p, err := NewPosition(x, y)
	if err != nil {
		panic(err)
	}
	return p
}

// X returns the horizontal coordinate.
func (p Position) X() float64 {
	return p.x
}

// Y returns the vertical coordinate.
func (p Position) Y() float64 {
	return p.y
}

// Distance is the straight-line (Euclidean) distance to other.
func (p Position) Distance(other Position) float64 {
	return math.Hypot(other.x-p.x, other.y-p.y)
}

// TileDistance is Distance expressed in map tiles of the given size.
// A non-positive tile size is treated as 1.
func (p Position) TileDistance(other Position, tileSize float64) float64 {
	if tileSize <= 0 {
		tileSize = 1
	}
	return p.Distance(other) / tileSize
}

// MoveToward returns the point reached after travelling step units from p
// towards target, never overshooting it.
func (p Position) MoveToward(target Position, step float64) Position {
	d := p.Distance(target)
	if d <= step || d == 0 {
		return target
	}
	ratio := step / d
	return Position{
		x: p.x + (target.x-p.x)*ratio,
		y: p.y + (target.y-p.y)*ratio,
	}
}

// IsEqual compares coordinates exactly.
func (p Position) IsEqual(other Position) bool {
	return p == other
}

// String renders the position for logs.
func (p Position) String() string {
	return fmt.Sprintf("Position(%.2f,%.2f)", p.x, p.y)
}
