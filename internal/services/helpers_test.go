package services

import (
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
)

var testNow = time.Date(2024, time.May, 1, 10, 0, 0, 0, time.Local)

// seeded once; bcrypt makes Seed slow
var seedSnapshot = store.Seed(testNow)

var (
	adminActor = domain.Actor{UserID: "admin", Name: "Admin User", Role: models.RoleAdmin}
	staffActor = domain.Actor{UserID: "ali.h", Name: "Ali Hassan", Role: models.RoleStaff}
)

func fixedClock() Clock { return func() time.Time { return testNow } }

func newTestStore(t *testing.T) (*store.Store, *store.MemoryBlob) {
	t.Helper()
	blob := store.NewMemoryBlob(nil)
	return store.NewWithSnapshot(blob, seedSnapshot), blob
}

func emptyStore(t *testing.T) *store.Store {
	t.Helper()
	return store.NewWithSnapshot(store.NewMemoryBlob(nil), store.Snapshot{})
}
