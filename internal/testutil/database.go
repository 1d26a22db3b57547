// Package testutil provides shared test helpers: a migrated in-memory
// database and seeding for transaction histories built with package ledger.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/recurring-spice/internal/model"
	"github.com/Veraticus/recurring-spice/internal/storage"
	"github.com/Veraticus/recurring-spice/internal/testutil/ledger"
)

// TestDB is a migrated in-memory database scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates an in-memory database, runs migrations and registers
// cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.Seed(ledger.NewBuilder("household", start).
//		WithFixture(ledger.FixtureStreaming).
//		Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// Seed stores transactions and fails the test on error.
func (db *TestDB) Seed(transactions []model.Transaction) {
	db.t.Helper()
	if _, err := db.Storage.SaveTransactions(context.Background(), transactions); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// SetupTestDBWithLedger creates a database seeded from a configured builder.
//
// Example:
//
//	db := testutil.SetupTestDBWithLedger(t, "household", start, func(b *ledger.Builder) *ledger.Builder {
//		return b.WithCharge("Netflix", 15.99, 6, 30)
//	})
func SetupTestDBWithLedger(t *testing.T, spaceID string, start time.Time, configure func(*ledger.Builder) *ledger.Builder) *TestDB {
	t.Helper()

	db := SetupTestDB(t)
	builder := ledger.NewBuilder(spaceID, start)
	if configure != nil {
		builder = configure(builder)
	}
	db.Seed(builder.Build())
	return db
}
