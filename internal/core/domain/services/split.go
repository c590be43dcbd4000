package services

import (
	"logistics/internal/core/domain/model/supply"
)

// Chunk is one carrier load drawn from one supplier.
type Chunk struct {
	Supplier *supply.Record
	Quantity int
}

// Split walks suppliers in the given order and cuts demand into chunks of at
// most capacity units. Each supplier contributes min(remaining demand, free)
// before the next one is tried; every chunk but the last of a supplier is
// exactly capacity. The sum of chunk quantities is less than demand only when
// the suppliers run out of free stock.
func Split(suppliers []*supply.Record, demand, capacity int) []Chunk {
	if demand <= 0 || capacity <= 0 {
		return nil
	}

	var chunks []Chunk
	remaining := demand
	for _, s := range suppliers {
		if remaining == 0 {
			break
		}
		if s == nil {
			continue
		}
		usable := min(remaining, s.Free())
		for usable > 0 {
			qty := min(usable, capacity)
			chunks = append(chunks, Chunk{Supplier: s, Quantity: qty})
			usable -= qty
			remaining -= qty
		}
	}
	return chunks
}

// Total sums chunk quantities.
func Total(chunks []Chunk) int {
	var sum int
	for _, c := range chunks {
		sum += c.Quantity
	}
	return sum
}
