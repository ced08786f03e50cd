package services

import (
	"context"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

// ActivityService reads and appends the audit trail.
type ActivityService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type ActivityFilter struct {
	User   string `form:"user"`
	Entity string `form:"entity"`
	Action string `form:"action"`
	Limit  int    `form:"limit"`
}

// Record appends one entry outside of any other mutation.
func (s ActivityService) Record(ctx context.Context, actor domain.Actor, action models.ActivityAction, entity models.ActivityEntity, entityID, details string) (models.ActivityLogEntry, error) {
	e := logEntry(s.Clock.now(), actor, action, entity, entityID, details)
	if err := s.Store.AppendActivity(ctx, e); err != nil {
		return models.ActivityLogEntry{}, err
	}
	utils.LogEvent(s.RequestID, "activity", "record", string(action)+" "+string(entity)+" "+entityID)
	return e, nil
}

// List returns entries newest first, filtered by exact user, entity and action.
func (s ActivityService) List(f ActivityFilter) []models.ActivityLogEntry {
	all := s.Store.Activity()
	out := make([]models.ActivityLogEntry, 0, len(all))
	for _, e := range all {
		if f.User != "" && !strings.EqualFold(e.User, f.User) {
			continue
		}
		if f.Entity != "" && !strings.EqualFold(string(e.Entity), f.Entity) {
			continue
		}
		if f.Action != "" && !strings.EqualFold(string(e.Action), f.Action) {
			continue
		}
		out = append(out, e)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

// Users lists the distinct user names that appear in the log, for filter menus.
func (s ActivityService) Users() []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range s.Store.Activity() {
		if e.User == "" || seen[e.User] {
			continue
		}
		seen[e.User] = true
		out = append(out, e.User)
	}
	return out
}
