package core

import "context"

// TransactionScope manages the lifecycle of a transaction.
type TransactionScope interface {
	// Execute runs fn within a transaction.
	// The transaction is committed if fn returns nil, rolled back otherwise.
	// The ctx passed to fn carries the transaction for repositories to join.
	// fn must not perform external side effects.
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// ExecuteWithResult runs fn within a transaction and returns its result.
func ExecuteWithResult[T any](ctx context.Context, scope TransactionScope, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := scope.Execute(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}
