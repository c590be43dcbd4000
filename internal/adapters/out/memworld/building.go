package memworld

import (
	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
)

var _ ports.Building = (*Building)(nil)

// Building is a placed entity. Cities have no inventory.
type Building struct {
	ref       kernel.EntityRef
	name      string
	position  kernel.Position
	inventory *Inventory
	capacity  int
}

func (b *Building) Ref() kernel.EntityRef { return b.ref }
func (b *Building) Name() string { return b.name }
func (b *Building) Position() kernel.Position { return b.position }
func (b *Building) CarrierCapacity() int { return b.capacity }

// Inventory returns nil for cities.
func (b *Building) Inventory() ports.Inventory {
	if b.inventory == nil {
		return nil
	}
	return b.inventory
}

// Stock is the typed inventory, nil for cities.
func (b *Building) Stock() *Inventory {
	return b.inventory
}

// IsCity reports whether the building is a city.
func (b *Building) IsCity() bool {
	return b.ref.Kind() == kernel.EntityCity
}
