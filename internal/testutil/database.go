// Package testutil provides shared test helpers: an in-memory punch archive
// and a fluent builder for punch fixtures.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/punchgrid/internal/model"
	"github.com/Veraticus/punchgrid/internal/service"
	"github.com/Veraticus/punchgrid/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a new in-memory archive seeded with punches.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t,
//		testutil.NewPunchBuilder(t).
//			CheckIn("A", "2024-01-01", "08:40:00").
//			CheckOut("A", "2024-01-01", "18:00:00").
//			Build(),
//	)
func SetupTestDB(t *testing.T, punches []model.PunchRecord) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	if len(punches) > 0 {
		if _, err := store.SavePunches(ctx, "fixture", punches); err != nil {
			t.Fatalf("failed to seed punches: %v", err)
		}
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// MustGetPunches returns every archived punch or fails the test.
func (db *TestDB) MustGetPunches() []model.PunchRecord {
	db.t.Helper()
	punches, err := db.Storage.GetPunches(context.Background(), model.PunchFilter{})
	if err != nil {
		db.t.Fatalf("failed to read punches: %v", err)
	}
	return punches
}
