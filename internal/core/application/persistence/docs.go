// Package persistence converts the job ledger and the order book to and from
// the snapshot payload. It holds no state of its own.
package persistence
