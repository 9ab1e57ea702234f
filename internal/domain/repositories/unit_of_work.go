package repositories

import (
	"context"
)

// UnitOfWork defines the interface for atomic operations
type UnitOfWork interface {
	// Do executes the given function within a transaction scope. A transaction
	// already carried by ctx is joined instead of nested.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks ctx so row reads inside the transaction take an exclusive lock
	WithLock(ctx context.Context) context.Context
}
