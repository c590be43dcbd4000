package services

import "logistics/internal/core/domain/model/supply"

// SetSplit swaps the demand splitter of p.
func SetSplit(p *Planner, fn func(suppliers []*supply.Record, demand, capacity int) []Chunk) {
	p.split = fn
}
