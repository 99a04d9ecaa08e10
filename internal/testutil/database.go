// Package testutil provides shared test fixtures with proper isolation.
package testutil

import (
	"context"
	"testing"

	"github.com/conciliafacil/concilia/internal/model"
	"github.com/conciliafacil/concilia/internal/service"
	"github.com/conciliafacil/concilia/internal/storage"
)

// TestDB wraps an in-memory database for tests.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database with automatic cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedTransactions replaces the persisted batch or fails the test.
func (db *TestDB) SeedTransactions(transactions []model.Transaction) {
	db.t.Helper()
	if err := db.Storage.ReplaceTransactions(context.Background(), transactions); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// SeedLearningExamples saves examples in order or fails the test.
func (db *TestDB) SeedLearningExamples(examples []model.LearningExample) {
	db.t.Helper()
	for _, ex := range examples {
		if err := db.Storage.SaveLearningExample(context.Background(), ex); err != nil {
			db.t.Fatalf("failed to seed learning example %q: %v", ex.ID, err)
		}
	}
}
