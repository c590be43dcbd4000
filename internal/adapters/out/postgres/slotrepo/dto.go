// Package slotrepo maps transport snapshots onto relational rows: one slot
// row plus its jobs, orders and routes, all keyed by slot name.
package slotrepo

import (
	"encoding/json"
	"time"

	"logistics/internal/core/domain/model/snapshot"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SlotDTO is the header row of a saved slot.
type SlotDTO struct {
	Name          string `gorm:"primaryKey;size:64"`
	SchemaVersion int
	SavedAt       time.Time
	Queue         datatypes.JSON `gorm:"type:json"`
}

func (SlotDTO) TableName() string {
	return "snapshot_slots"
}

// EntityKeyDTO is embedded with a column prefix per reference.
type EntityKeyDTO struct {
	Kind string `gorm:"size:16"`
	Key  string `gorm:"size:64"`
}

type PositionDTO struct {
	X float64
	Y float64
}

type JobDTO struct {
	Slot         string          `gorm:"primaryKey;size:64"`
	ID           int64           `gorm:"primaryKey;autoIncrement:false"`
	OrderID      int64           `gorm:"index"`
	Resource     string          `gorm:"size:64"`
	Quantity     int
	Cost         decimal.Decimal `gorm:"type:numeric(20,4)"`
	PricePerUnit decimal.Decimal `gorm:"type:numeric(20,4)"`
	Start        PositionDTO     `gorm:"embedded;embeddedPrefix:start_"`
	Target       PositionDTO     `gorm:"embedded;embeddedPrefix:target_"`
	Status       string          `gorm:"size:16"`
	Supplier     EntityKeyDTO    `gorm:"embedded;embeddedPrefix:supplier_"`
	Destination  EntityKeyDTO    `gorm:"embedded;embeddedPrefix:destination_"`
}

func (JobDTO) TableName() string {
	return "snapshot_jobs"
}

type OrderDTO struct {
	Slot         string          `gorm:"primaryKey;size:64"`
	ID           int64           `gorm:"primaryKey;autoIncrement:false"`
	Resource     string          `gorm:"size:64"`
	ProductName  string
	Total        int
	Remaining    int
	Reserved     int
	PricePerUnit decimal.Decimal `gorm:"type:numeric(20,4)"`
	Status       string          `gorm:"size:16"`
	Accepted     bool
	Destination  EntityKeyDTO    `gorm:"embedded;embeddedPrefix:destination_"`
	JobIDs       datatypes.JSON  `gorm:"type:json"`
}

func (OrderDTO) TableName() string {
	return "snapshot_orders"
}

type RouteDTO struct {
	Slot        string       `gorm:"primaryKey;size:64"`
	ID          int64        `gorm:"primaryKey;autoIncrement:false"`
	Supplier    EntityKeyDTO `gorm:"embedded;embeddedPrefix:supplier_"`
	Consumer    EntityKeyDTO `gorm:"embedded;embeddedPrefix:consumer_"`
	Resource    string       `gorm:"size:64"`
	Period      float64
	Capacity    int
	Accumulator float64
	InTransit   bool
}

func (RouteDTO) TableName() string {
	return "snapshot_routes"
}

// Models lists every table of the store, for AutoMigrate.
func Models() []any {
	return []any{&SlotDTO{}, &JobDTO{}, &OrderDTO{}, &RouteDTO{}}
}

type rows struct {
	slot   SlotDTO
	jobs   []JobDTO
	orders []OrderDTO
	routes []RouteDTO
}

func keyDTO(k snapshot.EntityKey) EntityKeyDTO {
	return EntityKeyDTO{Kind: k.Kind, Key: k.Key}
}

func (d EntityKeyDTO) toDomain() snapshot.EntityKey {
	return snapshot.EntityKey{Kind: d.Kind, Key: d.Key}
}

func fromDomain(name string, snap snapshot.Snapshot) (rows, error) {
	queue, err := json.Marshal(nonNil(snap.Queue))
	if err != nil {
		return rows{}, err
	}

	out := rows{
		slot: SlotDTO{
			Name:          name,
			SchemaVersion: snap.SchemaVersion,
			SavedAt:       snap.SavedAt.UTC(),
			Queue:         queue,
		},
		jobs:   make([]JobDTO, 0, len(snap.Jobs)),
		orders: make([]OrderDTO, 0, len(snap.Orders)),
		routes: make([]RouteDTO, 0, len(snap.Routes)),
	}

	for _, j := range snap.Jobs {
		out.jobs = append(out.jobs, JobDTO{
			Slot:         name,
			ID:           j.ID,
			OrderID:      j.OrderID,
			Resource:     j.Resource,
			Quantity:     j.Quantity,
			Cost:         j.Cost,
			PricePerUnit: j.PricePerUnit,
			Start:        PositionDTO{X: j.Start.X, Y: j.Start.Y},
			Target:       PositionDTO{X: j.Target.X, Y: j.Target.Y},
			Status:       j.Status,
			Supplier:     keyDTO(j.Supplier),
			Destination:  keyDTO(j.Destination),
		})
	}

	for _, o := range snap.Orders {
		ids, err := json.Marshal(nonNil(o.JobIDs))
		if err != nil {
			return rows{}, err
		}
		out.orders = append(out.orders, OrderDTO{
			Slot:         name,
			ID:           o.ID,
			Resource:     o.Resource,
			ProductName:  o.ProductName,
			Total:        o.Total,
			Remaining:    o.Remaining,
			Reserved:     o.Reserved,
			PricePerUnit: o.PricePerUnit,
			Status:       o.Status,
			Accepted:     o.Accepted,
			Destination:  keyDTO(o.Destination),
			JobIDs:       ids,
		})
	}

	for _, r := range snap.Routes {
		out.routes = append(out.routes, RouteDTO{
			Slot:        name,
			ID:          r.ID,
			Supplier:    keyDTO(r.Supplier),
			Consumer:    keyDTO(r.Consumer),
			Resource:    r.Resource,
			Period:      r.Period,
			Capacity:    r.Capacity,
			Accumulator: r.Accumulator,
			InTransit:   r.InTransit,
		})
	}

	return out, nil
}

// toDomain rebuilds the snapshot. Rows come back in id order; the queue and
// job id lists keep their saved order.
func toDomain(in rows) (snapshot.Snapshot, error) {
	snap := snapshot.Snapshot{
		SchemaVersion: in.slot.SchemaVersion,
		SavedAt:       in.slot.SavedAt.UTC(),
	}
	if err := unmarshalIDs(in.slot.Queue, &snap.Queue); err != nil {
		return snapshot.Snapshot{}, err
	}

	for _, j := range in.jobs {
		snap.Jobs = append(snap.Jobs, snapshot.Job{
			ID:           j.ID,
			OrderID:      j.OrderID,
			Resource:     j.Resource,
			Quantity:     j.Quantity,
			Cost:         j.Cost,
			PricePerUnit: j.PricePerUnit,
			Start:        snapshot.Position{X: j.Start.X, Y: j.Start.Y},
			Target:       snapshot.Position{X: j.Target.X, Y: j.Target.Y},
			Status:       j.Status,
			Supplier:     j.Supplier.toDomain(),
			Destination:  j.Destination.toDomain(),
		})
	}

	for _, o := range in.orders {
		order := snapshot.Order{
			ID:           o.ID,
			Resource:     o.Resource,
			ProductName:  o.ProductName,
			Total:        o.Total,
			Remaining:    o.Remaining,
			Reserved:     o.Reserved,
			PricePerUnit: o.PricePerUnit,
			Status:       o.Status,
			Accepted:     o.Accepted,
			Destination:  o.Destination.toDomain(),
		}
		if err := unmarshalIDs(o.JobIDs, &order.JobIDs); err != nil {
			return snapshot.Snapshot{}, err
		}
		snap.Orders = append(snap.Orders, order)
	}

	for _, r := range in.routes {
		snap.Routes = append(snap.Routes, snapshot.Route{
			ID:          r.ID,
			Supplier:    r.Supplier.toDomain(),
			Consumer:    r.Consumer.toDomain(),
			Resource:    r.Resource,
			Period:      r.Period,
			Capacity:    r.Capacity,
			Accumulator: r.Accumulator,
			InTransit:   r.InTransit,
		})
	}

	return snap, nil
}

func unmarshalIDs(raw datatypes.JSON, into *[]int64) error {
	if len(raw) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return err
	}
	if len(ids) > 0 {
		*into = ids
	}
	return nil
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
