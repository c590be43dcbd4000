package ports

import (
	"context"

	"logistics/internal/core/domain/model/snapshot"
)

// SlotRepository persists snapshots as rows, one slot at a time.
type SlotRepository interface {
	// Replace deletes whatever the slot held and writes snap in its place.
	Replace(ctx context.Context, slot string, snap snapshot.Snapshot) error

	// Get reads a slot back. A missing slot yields errs.ErrObjectNotFound.
	Get(ctx context.Context, slot string) (snapshot.Snapshot, error)

	// Names lists stored slots in name order.
	Names(ctx context.Context) ([]string, error)
}
