// Package bootstrap wires the configured storage backend, the repositories,
// the processors and the HTTP handlers together.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	accountsHandler "collab-server/internal/accounts/handler"
	accountsProcessor "collab-server/internal/accounts/processor"
	collabHandler "collab-server/internal/collaboration/handler"
	collabProcessor "collab-server/internal/collaboration/processor"
	"collab-server/internal/config"
	"collab-server/internal/notifications"
	"collab-server/internal/observability"
	"collab-server/internal/storage"
	"collab-server/internal/store"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Backend storage.Backend
	Store   store.Store
	Logger  *observability.Logger

	// Handlers
	AccountsHandler accountsHandler.Handler
	CollabHandler   collabHandler.Handler
}

// Initialize sets up all application dependencies. The SQLite engine is the
// default; when it cannot be opened the flat memory store takes over with a
// logged warning, per DB_DRIVER=memory semantics but without persistence.
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: logger}

	backend, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	deps.Backend = backend
	deps.Store = store.New(backend, logger)

	notifier := notifications.New(deps.Store, logger)

	collabProc := collabProcessor.New(deps.Store, notifier, logger)
	deps.CollabHandler = collabHandler.New(collabProc, deps.Store, logger)

	accountsProc := accountsProcessor.New(deps.Store, logger)
	deps.AccountsHandler = accountsHandler.New(accountsProc, logger)

	return deps, nil
}

func openBackend(ctx context.Context, cfg *config.Config, logger *observability.Logger) (storage.Backend, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Info(ctx, "using in-memory storage backend, data will not persist")
		return storage.NewMemory(), nil
	case "sqlite":
		backend, err := storage.OpenSQLite(cfg.Database.Path, logger)
		if err == nil {
			return backend, nil
		}
		if !errors.Is(err, storage.ErrBackendUnavailable) {
			return nil, fmt.Errorf("failed to open sqlite backend: %w", err)
		}
		logger.InfoWithError(ctx, "sqlite backend unavailable, falling back to memory store", err)
		logger.Warn(ctx, "running on the in-memory fallback, data will not persist")
		return storage.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// Close releases the storage backend. Called exactly once at shutdown.
func (d *Dependencies) Close() error {
	return d.Backend.Close()
}
