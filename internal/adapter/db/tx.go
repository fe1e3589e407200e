package db

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/lessonmap/internal/core"
)

// ErrNestedTransaction is returned when a transaction is started inside an active scope.
// Nesting would open an independent transaction and break atomicity.
var ErrNestedTransaction = errors.New("nested transaction detected")

type txKey struct{}

func withTx(ctx context.Context, tx dialect.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func txFromContext(ctx context.Context) (dialect.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(dialect.Tx)
	return tx, ok
}

// conn returns the transaction bound to ctx, falling back to the driver.
func conn(ctx context.Context, drv dialect.Driver) dialect.ExecQuerier {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return drv
}

// TxScope runs units of work inside a database transaction.
type TxScope struct {
	drv dialect.Driver
}

// NewTxScope constructs a transaction scope over the driver.
func NewTxScope(drv *entsql.Driver) *TxScope {
	return &TxScope{drv: drv}
}

var _ core.TransactionScope = (*TxScope)(nil)

// Execute runs fn within a transaction. The transaction is rolled back when fn
// returns an error or panics and committed otherwise.
func (s *TxScope) Execute(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFromContext(ctx); ok {
		return ErrNestedTransaction
	}

	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", core.ErrStore, err)
	}

	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = fmt.Errorf("%w: rolling back transaction: %v", err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", core.ErrStore, err)
	}
	return nil
}
