package memworld

import (
	"maps"
	"sync"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
)

var _ ports.Inventory = (*Inventory)(nil)

// Inventory is a resource -> quantity container. Quantities never go
// negative and empty entries are removed.
type Inventory struct {
	mu    sync.Mutex
	items map[kernel.ResourceID]int
}

// NewInventory copies the positive entries of stock.
func NewInventory(stock map[kernel.ResourceID]int) *Inventory {
	inv := &Inventory{items: make(map[kernel.ResourceID]int, len(stock))}
	for r, qty := range stock {
		inv.Add(r, qty)
	}
	return inv
}

func (i *Inventory) Get(resource kernel.ResourceID) int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.items[resource]
}

func (i *Inventory) Add(resource kernel.ResourceID, qty int) {
	if qty <= 0 || resource == "" {
		return
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	i.items[resource] += qty
}

func (i *Inventory) Consume(resource kernel.ResourceID, qty int) int {
	if qty <= 0 {
		return 0
	}
	i.mu.Lock()
	defer i.mu.Unlock()

	taken := min(qty, i.items[resource])
	if left := i.items[resource] - taken; left > 0 {
		i.items[resource] = left
	} else {
		delete(i.items, resource)
	}
	return taken
}

func (i *Inventory) Snapshot() map[kernel.ResourceID]int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return maps.Clone(i.items)
}
