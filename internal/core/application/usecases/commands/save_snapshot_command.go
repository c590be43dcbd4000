package commands

import (
	"context"
	"errors"
	"regexp"

	"logistics/internal/core/application/persistence"
	"logistics/internal/core/ports"
	"logistics/internal/pkg/errs"
	"logistics/internal/pkg/guard"
)

var (
	ErrSaveSnapshotCommandIsNotConstructed = errors.New(
		"SaveSnapshotCommand must be created via NewSaveSnapshotCommand constructor",
	)
	ErrLoadSnapshotCommandIsNotConstructed = errors.New(
		"LoadSnapshotCommand must be created via NewLoadSnapshotCommand constructor",
	)
)

// Slot names end up in file names and primary keys.
var slotPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]{0,63}$`)

func validSlot(slot string) error {
	if slot == "" {
		return errs.NewValueIsRequiredError("slot")
	}
	if !slotPattern.MatchString(slot) {
		return errs.NewValueIsInvalidError("slot")
	}
	return nil
}

// SaveSnapshotCommand writes the transport state to a named slot.
type SaveSnapshotCommand struct { //nolint:recvcheck //using for validation
	slot string

	guard guard.ConstructorGuard
}

func NewSaveSnapshotCommand(slot string) (SaveSnapshotCommand, error) {
	if err := validSlot(slot); err != nil {
		return SaveSnapshotCommand{}, err
	}
	return SaveSnapshotCommand{slot: slot, guard: guard.NewConstructorGuard()}, nil
}

func (c SaveSnapshotCommand) Validate() error {
	return c.guard.Validate(ErrSaveSnapshotCommandIsNotConstructed)
}

func (c SaveSnapshotCommand) Slot() string { return c.slot }

// LoadSnapshotCommand replaces the transport state with a named slot.
type LoadSnapshotCommand struct { //nolint:recvcheck //using for validation
	slot string

	guard guard.ConstructorGuard
}

func NewLoadSnapshotCommand(slot string) (LoadSnapshotCommand, error) {
	if err := validSlot(slot); err != nil {
		return LoadSnapshotCommand{}, err
	}
	return LoadSnapshotCommand{slot: slot, guard: guard.NewConstructorGuard()}, nil
}

func (c LoadSnapshotCommand) Validate() error {
	return c.guard.Validate(ErrLoadSnapshotCommandIsNotConstructed)
}

func (c LoadSnapshotCommand) Slot() string { return c.slot }

// SnapshotCommandHandler saves and loads slots of one store.
type SnapshotCommandHandler struct {
	archive Archive
	store   ports.SnapshotStore
}

func NewSnapshotCommandHandler(archive Archive, store ports.SnapshotStore) SnapshotCommandHandler {
	return SnapshotCommandHandler{archive: archive, store: store}
}

func (h SnapshotCommandHandler) Save(ctx context.Context, cmd SaveSnapshotCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	return h.archive.Save(ctx, h.store, cmd.Slot())
}

// Load restores the slot. The report counts what was restored and skipped.
func (h SnapshotCommandHandler) Load(ctx context.Context, cmd LoadSnapshotCommand) (persistence.RestoreReport, error) {
	if err := cmd.Validate(); err != nil {
		return persistence.RestoreReport{}, err
	}
	return h.archive.Load(ctx, h.store, cmd.Slot())
}

// Slots lists the saved slots.
func (h SnapshotCommandHandler) Slots(ctx context.Context) ([]string, error) {
	return h.store.List(ctx)
}
