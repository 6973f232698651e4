package store

import (
	"os"
	"path/filepath"
	"testing"

	"collab-server/internal/observability"
	"collab-server/internal/storage"
)

// TestDBType represents the type of backend to use for testing
type TestDBType string

const (
	TestDBTypeMemory TestDBType = "memory"
	TestDBTypeSQLite TestDBType = "sqlite"
)

// TestDB wraps a test backend instance
type TestDB struct {
	backend storage.Backend
	logger  *observability.Logger
	Store   Store
	dbType  TestDBType
}

// SetupTestDB creates a new test backend instance. The memory backend is the
// default; set TEST_DB_TYPE=sqlite to run the same suite against a real
// database file.
func SetupTestDB(t *testing.T, dbType TestDBType) *TestDB {
	t.Helper()

	if dbType == "" {
		envDBType := os.Getenv("TEST_DB_TYPE")
		if envDBType == "" {
			dbType = TestDBTypeMemory
		} else {
			dbType = TestDBType(envDBType)
		}
	}

	logger := observability.NewLogger()

	var backend storage.Backend
	var err error

	switch dbType {
	case TestDBTypeMemory:
		backend = storage.NewMemory()
	case TestDBTypeSQLite:
		backend, err = storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), logger)
	default:
		t.Fatalf("unsupported backend type: %s", dbType)
	}

	if err != nil {
		t.Fatalf("failed to setup test backend: %v", err)
	}

	t.Cleanup(func() {
		_ = backend.Close()
	})

	return &TestDB{
		backend: backend,
		logger:  logger,
		Store:   New(backend, logger),
		dbType:  dbType,
	}
}

// Backend exposes the raw backend for tests that assert on stored rows.
func (tdb *TestDB) Backend() storage.Backend {
	return tdb.backend
}
