package supply

import (
	"logistics/internal/core/domain/model/kernel"
)

// Index is the per-resource projection of supplier stock plus the
// reservations made by planning on top of the latest rebuild.
//
// Reserved never exceeds available: Reserve refuses instead of clamping.
type Index struct {
	byResource map[kernel.ResourceID][]*Record
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{byResource: make(map[kernel.ResourceID][]*Record)}
}

// Rebuild replaces the records of every resource present in records, in
// input order. Resources absent from records are untouched. Records are
// copied; a later record with the same supplier id replaces an earlier one.
func (x *Index) Rebuild(records []*Record) {
	fresh := make(map[kernel.ResourceID][]*Record)
	pos := make(map[string]int)

	for _, r := range records {
		if r == nil {
			continue
		}
		list := fresh[r.resource]
		if i, ok := pos[r.id]; ok {
			list[i] = r.clone()
			continue
		}
		pos[r.id] = len(list)
		fresh[r.resource] = append(list, r.clone())
	}

	for resource, list := range fresh {
		x.byResource[resource] = list
	}
}

// Reserve adds amount to a supplier's reservation. It returns false without
// changing anything when the record is unknown, amount is not positive, or
// the reservation would exceed available.
func (x *Index) Reserve(resource kernel.ResourceID, supplierID string, amount int) bool {
	r, ok := x.Record(resource, supplierID)
	if !ok || amount <= 0 || r.reserved+amount > r.available {
		return false
	}
	r.reserved += amount
	return true
}

// Unreserve releases amount from a supplier's reservation, flooring at 0.
func (x *Index) Unreserve(resource kernel.ResourceID, supplierID string, amount int) bool {
	r, ok := x.Record(resource, supplierID)
	if !ok || amount <= 0 {
		return false
	}
	r.reserved = max(0, r.reserved-amount)
	return true
}

// Suppliers returns the live records for resource in rebuild order.
func (x *Index) Suppliers(resource kernel.ResourceID) []*Record {
	return x.byResource[resource]
}

// Record looks up one supplier's record.
func (x *Index) Record(resource kernel.ResourceID, supplierID string) (*Record, bool) {
	for _, r := range x.byResource[resource] {
		if r.id == supplierID {
			return r, true
		}
	}
	return nil, false
}

// Clear drops every record.
func (x *Index) Clear() {
	x.byResource = make(map[kernel.ResourceID][]*Record)
}
