package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Store is the in-memory repository over one snapshot. Reads return copies;
// every mutation persists the whole snapshot through the BlobStore. A failed
// write is logged and retried on the next mutation.
type Store struct {
	mu   sync.RWMutex
	blob BlobStore
	data Snapshot

	persistMu  sync.Mutex
	persistErr error
}

// Open loads the snapshot, falling back to the seed dataset when the blob is
// missing, malformed or lacks customers/users. Any other load error is
// returned and nothing is written.
func Open(ctx context.Context, blob BlobStore) (*Store, error) {
	s := &Store{blob: blob}
	log := utils.Logger()

	raw, err := blob.Load(ctx)
	switch {
	case errors.Is(err, ErrBlobNotFound):
		log.Info("no stored snapshot, loading seed data")
		s.data = Seed(time.Now())
		s.persistLocked(ctx)
	case err != nil:
		return nil, fmt.Errorf("load snapshot: %w", err)
	default:
		snap, ok := decodeSnapshot(raw)
		if !ok {
			log.Warn("stored snapshot is malformed, loading seed data", zap.Int("bytes", len(raw)))
			s.data = Seed(time.Now())
			s.persistLocked(ctx)
			break
		}
		s.data = snap
		if upgradeLegacyPasswords(s.data.Users) {
			s.persistLocked(ctx)
		}
	}
	return s, nil
}

// NewWithSnapshot builds a store around snap without loading from blob.
func NewWithSnapshot(blob BlobStore, snap Snapshot) *Store {
	snap.fillNil()
	return &Store{blob: blob, data: snap.Clone()}
}

// Snapshot returns a deep copy of everything.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.Clone()
}

// Mutate runs fn against the live snapshot under the write lock and persists
// the result when fn succeeds. fn must not retain the pointer.
func (s *Store) Mutate(ctx context.Context, fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.data); err != nil {
		return err
	}
	s.persistLocked(ctx)
	return nil
}

// PersistError returns the last write failure, or nil once a write succeeds.
func (s *Store) PersistError() error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	return s.persistErr
}

func (s *Store) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.data)
	if err == nil {
		err = s.blob.Save(ctx, raw)
	}

	s.persistMu.Lock()
	s.persistErr = err
	s.persistMu.Unlock()

	if err != nil {
		utils.Logger().Error("snapshot persist failed; keeping in-memory state", zap.Error(err))
	}
}

func upgradeLegacyPasswords(users []models.User) bool {
	changed := false
	for i := range users {
		if users[i].LegacyPassword == "" {
			continue
		}
		if users[i].PasswordHash == "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(users[i].LegacyPassword), bcrypt.DefaultCost)
			if err != nil {
				continue
			}
			users[i].PasswordHash = string(hash)
		}
		users[i].LegacyPassword = ""
		changed = true
	}
	return changed
}

// Customers

func (s *Store) Customers() []models.Customer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Customer, len(s.data.Customers))
	for i, c := range s.data.Customers {
		out[i] = cloneCustomer(c)
	}
	return out
}

func (s *Store) Customer(id string) (models.Customer, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.data.Customers, id, CustomerKey); i >= 0 {
		return cloneCustomer(s.data.Customers[i]), true
	}
	return models.Customer{}, false
}

// Packages

func (s *Store) Packages() []models.Package {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Package, len(s.data.Packages))
	for i, p := range s.data.Packages {
		out[i] = clonePackage(p)
	}
	return out
}

func (s *Store) Package(id string) (models.Package, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.data.Packages, id, PackageKey); i >= 0 {
		return clonePackage(s.data.Packages[i]), true
	}
	return models.Package{}, false
}

// Bookings

func (s *Store) Bookings() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Booking, len(s.data.Bookings))
	for i, b := range s.data.Bookings {
		out[i] = cloneBooking(b)
	}
	return out
}

func (s *Store) Booking(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.data.Bookings, id, BookingKey); i >= 0 {
		return cloneBooking(s.data.Bookings[i]), true
	}
	return models.Booking{}, false
}

// Payments

func (s *Store) Payments() []models.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Payment{}, s.data.Payments...)
}

func (s *Store) Payment(id string) (models.Payment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.data.Payments, id, PaymentKey); i >= 0 {
		return s.data.Payments[i], true
	}
	return models.Payment{}, false
}

// Expenses

func (s *Store) Expenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Expense{}, s.data.Expenses...)
}

// Expense categories

func (s *Store) ExpenseCategories() []models.ExpenseCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ExpenseCategory{}, s.data.ExpenseCategories...)
}

// Tasks

func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Task{}, s.data.Tasks...)
}

func (s *Store) Task(id string) (models.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.data.Tasks, id, TaskKey); i >= 0 {
		return s.data.Tasks[i], true
	}
	return models.Task{}, false
}

// Users

func (s *Store) Users() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.User{}, s.data.Users...)
}

func (s *Store) User(id string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.data.Users, id, UserKey); i >= 0 {
		return s.data.Users[i], true
	}
	return models.User{}, false
}

// Activity log, newest first

func (s *Store) Activity() []models.ActivityLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.ActivityLogEntry{}, s.data.ActivityLog...)
}

func (s *Store) AppendActivity(ctx context.Context, e models.ActivityLogEntry) error {
	return s.Mutate(ctx, func(d *Snapshot) error {
		d.ActivityLog = PrependActivity(d.ActivityLog, e)
		return nil
	})
}

// PrependActivity puts e at the head of log.
func PrependActivity(log []models.ActivityLogEntry, e models.ActivityLogEntry) []models.ActivityLogEntry {
	out := make([]models.ActivityLogEntry, 0, len(log)+1)
	out = append(out, e)
	return append(out, log...)
}

// Key funcs for IndexOf, Upsert and Remove.
func CustomerKey(c models.Customer) string { return c.ID }
func PackageKey(p models.Package) string { return p.ID }
func BookingKey(b models.Booking) string { return b.ID }
func PaymentKey(p models.Payment) string { return p.ID }
func ExpenseKey(e models.Expense) string { return e.ID }
func CategoryKey(c models.ExpenseCategory) string { return c.ID }
func TaskKey(t models.Task) string { return t.ID }
func UserKey(u models.User) string { return u.ID }

// IndexOf returns the position of the item whose key is id, or -1.
func IndexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}

// Upsert replaces the item with the same id in place, or appends it.
func Upsert[T any](items []T, item T, key func(T) string) []T {
	if i := IndexOf(items, key(item), key); i >= 0 {
		items[i] = item
		return items
	}
	return append(items, item)
}

// Remove drops the item with key id, reporting whether it was there.
func Remove[T any](items []T, id string, key func(T) string) ([]T, bool) {
	i := IndexOf(items, id, key)
	if i < 0 {
		return items, false
	}
	return append(items[:i:i], items[i+1:]...), true
}
