package services

import (
	"strings"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"

	"github.com/google/uuid"
)

// Clock returns the current time; services take one so tests can pin "today".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now()
	}
	return c()
}

// newID mints prefix + 8 hex chars, retrying while taken reports a collision.
func newID(prefix string, taken func(string) bool) string {
	for {
		id := prefix + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
		if taken == nil || !taken(id) {
			return id
		}
	}
}

func logEntry(now time.Time, actor domain.Actor, action models.ActivityAction, entity models.ActivityEntity, entityID, details string) models.ActivityLogEntry {
	return models.ActivityLogEntry{
		ID:        newID("LOG-", nil),
		Timestamp: now.UTC(),
		User:      actor.Name,
		Action:    action,
		Entity:    entity,
		EntityID:  entityID,
		Details:   details,
	}
}

// record prepends an activity entry inside an open Mutate.
func record(snap *store.Snapshot, now time.Time, actor domain.Actor, action models.ActivityAction, entity models.ActivityEntity, entityID, details string) {
	snap.ActivityLog = store.PrependActivity(snap.ActivityLog, logEntry(now, actor, action, entity, entityID, details))
}

func customerName(snap *store.Snapshot, id string) string {
	if i := store.IndexOf(snap.Customers, id, store.CustomerKey); i >= 0 {
		return snap.Customers[i].Name
	}
	return "Unknown"
}

func notFound(resource, id string) error {
	return domain.NotFoundError{Resource: resource, ID: id}
}
