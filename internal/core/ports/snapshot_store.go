package ports

import (
	"context"

	"logistics/internal/core/domain/model/snapshot"
)

// SnapshotStore keeps transport snapshots in named slots ("autosave",
// "quicksave", ...). Load of a missing slot returns an error wrapping
// errs.ErrObjectNotFound.
type SnapshotStore interface {
	Save(ctx context.Context, slot string, snap snapshot.Snapshot) error
	Load(ctx context.Context, slot string) (snapshot.Snapshot, error)
	List(ctx context.Context) ([]string, error)
}
