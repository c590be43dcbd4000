// Package services provides the domain services of the transport core.
//
// The package includes:
//   - Planner: matches a delivery order's outstanding demand against the
//     supply index and commits a set of carrier-sized jobs, or nothing
//   - Split: the pure chunking algorithm behind the planner
//   - StraightLineCost: the fallback transport price when no road path is known
//
// Services coordinate the job ledger, order book and supply index, which each
// own their own entities and reference one another by id only.
package services
