package postgres

import (
	"context"
	"errors"
	"fmt"

	"logistics/internal/core/domain/model/snapshot"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
)

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore implements ports.SnapshotStore on top of a UnitOfWorkFactory.
// A save replaces the whole slot in one transaction.
type SnapshotStore struct {
	factory ports.UnitOfWorkFactory
}

// NewSnapshotStore creates a store that opens one unit of work per call.
func NewSnapshotStore(factory ports.UnitOfWorkFactory) (*SnapshotStore, error) {
	if factory == nil {
		return nil, errs.NewValueIsRequiredError("factory")
	}
	return &SnapshotStore{factory: factory}, nil
}

// Save replaces every row of slot with snap inside one transaction and rolls
// back on any error.
func (s *SnapshotStore) Save(ctx context.Context, slot string, snap snapshot.Snapshot) (err error) {
	uow := s.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("begin save %q: %w", slot, err)
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, uow.Rollback(ctx))
		}
	}()

	if err := uow.SlotRepository().Replace(ctx, slot, snap); err != nil {
		return fmt.Errorf("save %q: %w", slot, err)
	}
	return uow.Commit(ctx)
}

// Load reads slot inside a transaction. An unknown slot is an object not found
// error.
func (s *SnapshotStore) Load(ctx context.Context, slot string) (snapshot.Snapshot, error) {
	uow := s.factory.Create()
	if err := uow.Begin(ctx); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("begin load %q: %w", slot, err)
	}

	snap, err := uow.SlotRepository().Get(ctx, slot)
	if err != nil {
		return snapshot.Snapshot{}, errors.Join(err, uow.Rollback(ctx))
	}
	return snap, uow.Commit(ctx)
}

// List returns the names of the saved slots.
func (s *SnapshotStore) List(ctx context.Context) ([]string, error) {
	return s.factory.Create().SlotRepository().Names(ctx)
}
