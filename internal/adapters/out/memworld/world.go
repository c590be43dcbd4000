package memworld

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"logistics/internal/core/domain/model/kernel"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

var (
	_ ports.BuildingRegistry = (*World)(nil)
	_ ports.ServiceRegistry  = (*World)(nil)
)

// ErrBuildingNotFound is returned when a reference names no placed building.
var ErrBuildingNotFound = errors.New("building not found")

// World holds every placed building in placement order. It doubles as the
// service registry: Ready is closed by MarkReady.
type World struct {
	mu        sync.RWMutex
	buildings map[kernel.EntityRef]*Building
	order     []kernel.EntityRef

	ready     chan struct{}
	readyOnce sync.Once
}

// NewWorld returns an empty world that is not ready yet.
func NewWorld() *World {
	return &World{
		buildings: make(map[kernel.EntityRef]*Building),
		ready:     make(chan struct{}),
	}
}

// AddBuilding places an inventory-bearing building. capacity 0 means the
// configured default carrier capacity.
func (w *World) AddBuilding(name string, pos kernel.Position, capacity int, stock map[kernel.ResourceID]int) (*Building, error) {
	if capacity < 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("carrier capacity", fmt.Errorf("%d is negative", capacity))
	}
	b := &Building{
		ref:       kernel.BuildingRef(kernel.NewUUID()),
		name:      name,
		position:  pos,
		inventory: NewInventory(stock),
		capacity:  capacity,
	}
	w.place(b)
	return b, nil
}

// AddCity places a city. Cities buy goods instead of storing them.
func (w *World) AddCity(name string, pos kernel.Position) *Building {
	b := &Building{
		ref:      kernel.CityRef(kernel.NewUUID()),
		name:     name,
		position: pos,
	}
	w.place(b)
	return b
}

// Remove deletes the building behind ref.
func (w *World) Remove(ref kernel.EntityRef) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.buildings[ref]; !ok {
		return fmt.Errorf("%w: %s", ErrBuildingNotFound, ref)
	}
	delete(w.buildings, ref)
	w.order = slices.DeleteFunc(w.order, func(r kernel.EntityRef) bool { return r == ref })
	return nil
}

func (w *World) Lookup(ref kernel.EntityRef) (ports.Building, bool) {
	b, ok := w.Building(ref)
	if !ok {
		return nil, false
	}
	return b, true
}

// Building returns the concrete building behind ref.
func (w *World) Building(ref kernel.EntityRef) (*Building, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	b, ok := w.buildings[ref]
	return b, ok
}

// FindByName returns the first building whose name matches, ignoring case.
func (w *World) FindByName(name string) (*Building, bool) {
	for _, b := range w.Buildings() {
		if strings.EqualFold(b.name, name) {
			return b, true
		}
	}
	return nil, false
}

func (w *World) Holding(resource kernel.ResourceID) []ports.Building {
	var out []ports.Building
	for _, b := range w.Buildings() {
		if b.inventory != nil && b.inventory.Get(resource) > 0 {
			out = append(out, b)
		}
	}
	return out
}

// Buildings lists every building in placement order.
func (w *World) Buildings() []*Building {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Building, 0, len(w.order))
	for _, ref := range w.order {
		out = append(out, w.buildings[ref])
	}
	return out
}

// MarkReady opens the readiness gate. Further calls do nothing.
func (w *World) MarkReady() {
	w.readyOnce.Do(func() { close(w.ready) })
}

func (w *World) Ready() <-chan struct{} {
	return w.ready
}

func (w *World) place(b *Building) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.buildings[b.ref] = b
	w.order = append(w.order, b.ref)
}
