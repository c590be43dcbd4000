package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per save or load.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a transaction boundary around snapshot repositories.
// Client code must explicitly manage the transaction lifecycle.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// SlotRepository returns a repository bound to the current transaction.
	SlotRepository() SlotRepository
}
