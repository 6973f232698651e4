// Package store holds the specialized repositories: one file per aggregate,
// each composing the generic storage backend with aggregate-specific
// invariants and the entity mappers between stored rows and domain objects.
package store

import (
	"context"

	"collab-server/internal/observability"
	"collab-server/internal/storage"
)

// Store is the root of all specialized repositories. It owns no connection
// state of its own; the backend handle is injected by the caller and shared
// for the process lifetime.
type Store struct {
	backend storage.Backend
	logger  *observability.Logger
}

func New(backend storage.Backend, logger *observability.Logger) Store {
	return Store{backend: backend, logger: logger}
}

// Backend exposes the underlying storage backend.
func (s *Store) Backend() storage.Backend {
	return s.backend
}

// Transaction runs fn against a transaction-scoped store. Everything fn
// writes is rolled back if it returns an error.
func (s *Store) Transaction(ctx context.Context, fn func(ctx context.Context, ts Store) error) error {
	return s.backend.Transaction(ctx, func(ctx context.Context, tx storage.Backend) error {
		return fn(ctx, Store{backend: tx, logger: s.logger})
	})
}

// Close releases the backend handle. Called exactly once at shutdown.
func (s *Store) Close() error {
	return s.backend.Close()
}
