package persistence

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTransaction is returned by Commit and Rollback when ctx carries no transaction.
var ErrNoTransaction = errors.New("no transaction in context")

type txKey[T comparable] struct{}

// Tx is a driver transaction carried by a context. Owned is false when a
// nested Begin joined a transaction opened further up the call chain; only
// the owner ends it.
type Tx[T comparable] struct {
	Tx    T
	Owned bool
}

func withTx[T comparable](ctx context.Context, tx T, owned bool) context.Context {
	return context.WithValue(ctx, txKey[T]{}, Tx[T]{Tx: tx, Owned: owned})
}

func txFromContext[T comparable](ctx context.Context) (Tx[T], bool) {
	info, ok := ctx.Value(txKey[T]{}).(Tx[T])
	var none T
	if !ok || info.Tx == none {
		return Tx[T]{}, false
	}
	return info, true
}

// driver opens and ends the transactions of one database driver.
type driver[T comparable] struct {
	name     string
	begin    func(ctx context.Context) (T, error)
	commit   func(ctx context.Context, tx T) error
	rollback func(ctx context.Context, tx T) error
}

// unitOfWork keeps one transaction per request context. Stores pick it up
// through their driver's executor, so every write of a command lands in the
// same transaction as its outbox rows.
type unitOfWork[T comparable] struct {
	driver driver[T]
}

// Begin starts a transaction and stores it in the context. A nested Begin
// joins the outer transaction without taking ownership of it.
func (u unitOfWork[T]) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := txFromContext[T](ctx); ok {
		return withTx(ctx, info.Tx, false), nil
	}

	tx, err := u.driver.begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin %s transaction: %w", u.driver.name, err)
	}
	return withTx(ctx, tx, true), nil
}

// Commit commits the transaction if this unit owns it.
func (u unitOfWork[T]) Commit(ctx context.Context) error {
	return u.end(ctx, u.driver.commit)
}

// Rollback rolls back the transaction if this unit owns it.
func (u unitOfWork[T]) Rollback(ctx context.Context) error {
	return u.end(ctx, u.driver.rollback)
}

func (u unitOfWork[T]) end(ctx context.Context, finish func(context.Context, T) error) error {
	info, ok := txFromContext[T](ctx)
	if !ok {
		return ErrNoTransaction
	}
	if !info.Owned {
		return nil
	}
	return finish(ctx, info.Tx)
}
