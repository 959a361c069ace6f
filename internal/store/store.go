// Package store persists secret records keyed by lookup hash. Two backends
// share the interface: Redis for deployments and an in-memory map for tests
// and single-process setups.
package store

import (
	"context"
	"time"

	"github.com/weedz/secrets/internal/domain"
)

// SecretStore is the persistence boundary of the lifecycle manager.
type SecretStore interface {
	// Insert creates one record. Fails with domain.ErrConflict when the
	// lookup hash already exists.
	Insert(ctx context.Context, rec *domain.Record) error

	// Fetch returns the record, or domain.ErrNotFound when absent.
	Fetch(ctx context.Context, lookupHash string) (*domain.Record, error)

	// DecrementViews atomically reduces the view budget by one, but only
	// while it is still positive, and returns the post-decrement value.
	// Concurrent callers racing on the same record each observe a
	// distinct value; losers of the race on the last view get
	// domain.ErrNotFound, as does any caller once the record is gone.
	DecrementViews(ctx context.Context, lookupHash string) (int, error)

	// Delete removes a record. Idempotent, no error when already absent.
	Delete(ctx context.Context, lookupHash string) error

	// DeleteExpired purges every record whose expiration date is before
	// now and returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)

	Close() error
}
