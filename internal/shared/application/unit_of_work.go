// Package application holds cross-context application services.
package application

import "context"

// UnitOfWork coordinates a transaction across repositories.
type UnitOfWork interface {
	// Begin starts a transaction and returns a context carrying it.
	Begin(ctx context.Context) (context.Context, error)
	// Commit commits the transaction carried by the context.
	Commit(ctx context.Context) error
	// Rollback aborts the transaction carried by the context.
	Rollback(ctx context.Context) error
}

// WithUnitOfWork runs fn inside a transaction, committing on success and
// rolling back on error.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(txCtx context.Context) error) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
