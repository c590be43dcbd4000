// Package snapshot defines the persisted transport payload: live jobs, the
// dispatch queue order, delivery orders and recurring routes. Every field
// decodes to its zero value when absent.
package snapshot

import (
	"time"

	"logistics/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// SchemaVersion is written into every snapshot. Readers accept any version
// up to this one.
const SchemaVersion = 1

// EntityKey identifies a supplier or target by kind and stable key. The zero
// value means no entity.
type EntityKey struct {
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
}

// KeyOf converts a live reference to its persisted form.
func KeyOf(ref kernel.EntityRef) EntityKey {
	if ref.IsNone() {
		return EntityKey{}
	}
	return EntityKey{Kind: ref.Kind().String(), Key: ref.Key().String()}
}

// IsZero reports whether k names no entity.
func (k EntityKey) IsZero() bool {
	return k.Key == ""
}

func (k EntityKey) String() string {
	if k.IsZero() {
		return "none"
	}
	return k.Kind + ":" + k.Key
}

// Position is a world position.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// PositionOf converts a kernel position.
func PositionOf(p kernel.Position) Position {
	return Position{X: p.X(), Y: p.Y()}
}

// Kernel converts back, mapping non-finite coordinates to the origin.
func (p Position) Kernel() kernel.Position {
	pos, err := kernel.NewPosition(p.X, p.Y)
	if err != nil {
		return kernel.Position{}
	}
	return pos
}

// Job is one live job.
type Job struct {
	ID           int64           `json:"id" yaml:"id"`
	OrderID      int64           `json:"order_id,omitempty" yaml:"order_id,omitempty"`
	Resource     string          `json:"resource" yaml:"resource"`
	Quantity     int             `json:"quantity" yaml:"quantity"`
	Cost         decimal.Decimal `json:"cost" yaml:"cost"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" yaml:"price_per_unit"`
	Start        Position        `json:"start" yaml:"start"`
	Target       Position        `json:"target" yaml:"target"`
	Status       string          `json:"status" yaml:"status"`
	Supplier     EntityKey       `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	Destination  EntityKey       `json:"destination,omitempty" yaml:"destination,omitempty"`
}

// Order is one delivery order with its ordered job ids.
type Order struct {
	ID           int64           `json:"id" yaml:"id"`
	Resource     string          `json:"resource" yaml:"resource"`
	ProductName  string          `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	Total        int             `json:"total" yaml:"total"`
	Remaining    int             `json:"remaining" yaml:"remaining"`
	Reserved     int             `json:"reserved,omitempty" yaml:"reserved,omitempty"`
	PricePerUnit decimal.Decimal `json:"price_per_unit" yaml:"price_per_unit"`
	Status       string          `json:"status" yaml:"status"`
	Accepted     bool            `json:"accepted,omitempty" yaml:"accepted,omitempty"`
	Destination  EntityKey       `json:"destination,omitempty" yaml:"destination,omitempty"`
	JobIDs       []int64         `json:"job_ids,omitempty" yaml:"job_ids,omitempty"`
}

// Route is one recurring supply route.
type Route struct {
	ID          int64     `json:"id" yaml:"id"`
	Supplier    EntityKey `json:"supplier" yaml:"supplier"`
	Consumer    EntityKey `json:"consumer" yaml:"consumer"`
	Resource    string    `json:"resource" yaml:"resource"`
	Period      float64   `json:"period" yaml:"period"`
	Capacity    int       `json:"capacity" yaml:"capacity"`
	Accumulator float64   `json:"accumulator,omitempty" yaml:"accumulator,omitempty"`
	InTransit   bool      `json:"in_transit,omitempty" yaml:"in_transit,omitempty"`
}

// Snapshot is the whole transport payload of a save.
type Snapshot struct {
	SchemaVersion int       `json:"schema_version" yaml:"schema_version"`
	SavedAt       time.Time `json:"saved_at,omitempty" yaml:"saved_at,omitempty"`
	Jobs          []Job     `json:"jobs,omitempty" yaml:"jobs,omitempty"`
	Queue         []int64   `json:"queue,omitempty" yaml:"queue,omitempty"`
	Orders        []Order   `json:"orders,omitempty" yaml:"orders,omitempty"`
	Routes        []Route   `json:"routes,omitempty" yaml:"routes,omitempty"`
}
