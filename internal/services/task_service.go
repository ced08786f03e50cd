package services

import (
	"context"
	"sort"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

type TaskService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

// TaskFilter.Status is all, completed or incomplete (the default).
type TaskFilter struct {
	Status   string `form:"status"`
	Priority string `form:"priority"`
}

func (s TaskService) Save(ctx context.Context, actor domain.Actor, t models.Task) (models.Task, error) {
	t.Title = strings.TrimSpace(t.Title)
	t.BookingID = strings.TrimSpace(t.BookingID)
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	switch {
	case t.Title == "":
		return models.Task{}, domain.ValidationError{Field: "title", Msg: "required"}
	case !t.Priority.Valid():
		return models.Task{}, domain.ValidationError{Field: "priority", Msg: "must be High, Medium or Low"}
	}
	if _, err := utils.ParseDate(t.DueDate); err != nil {
		return models.Task{}, domain.ValidationError{Field: "dueDate", Msg: "expected YYYY-MM-DD", Err: err}
	}

	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		action := models.ActionCreated
		if t.ID != "" {
			if store.IndexOf(snap.Tasks, t.ID, store.TaskKey) < 0 {
				return notFound("task", t.ID)
			}
			action = models.ActionUpdated
		}
		if t.BookingID != "" && store.IndexOf(snap.Bookings, t.BookingID, store.BookingKey) < 0 {
			return domain.ValidationError{Field: "bookingId", Msg: "unknown booking " + t.BookingID}
		}
		if t.ID == "" {
			t.ID = newID("T", func(id string) bool { return store.IndexOf(snap.Tasks, id, store.TaskKey) >= 0 })
		}
		snap.Tasks = store.Upsert(snap.Tasks, t, store.TaskKey)
		record(snap, now, actor, action, models.EntityTask, t.ID, t.Title)
		return nil
	})
	if err != nil {
		return models.Task{}, err
	}
	utils.LogEvent(s.RequestID, "task", "save", "task_id="+t.ID)
	return t, nil
}

func (s TaskService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Tasks, id, store.TaskKey)
		if i < 0 {
			return notFound("task", id)
		}
		title := snap.Tasks[i].Title
		snap.Tasks, _ = store.Remove(snap.Tasks, id, store.TaskKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityTask, id, title)
		return nil
	})
}

// Toggle flips completion and logs Completed or Incomplete.
func (s TaskService) Toggle(ctx context.Context, actor domain.Actor, id string) (models.Task, error) {
	var out models.Task
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Tasks, id, store.TaskKey)
		if i < 0 {
			return notFound("task", id)
		}
		t := &snap.Tasks[i]
		t.IsCompleted = !t.IsCompleted
		action := models.ActionIncomplete
		if t.IsCompleted {
			action = models.ActionCompleted
		}
		record(snap, now, actor, action, models.EntityTask, id, t.Title)
		out = *t
		return nil
	})
	return out, err
}

func (s TaskService) Get(id string) (models.Task, error) {
	t, ok := s.Store.Task(id)
	if !ok {
		return models.Task{}, notFound("task", id)
	}
	return t, nil
}

// List orders open tasks first, then by due date, then High before Low.
func (s TaskService) List(f TaskFilter) []models.Task {
	status := strings.ToLower(strings.TrimSpace(f.Status))
	if status == "" {
		status = "incomplete"
	}

	all := s.Store.Tasks()
	out := make([]models.Task, 0, len(all))
	for _, t := range all {
		if status == "completed" && !t.IsCompleted {
			continue
		}
		if status == "incomplete" && t.IsCompleted {
			continue
		}
		if f.Priority != "" && f.Priority != "All" && string(t.Priority) != f.Priority {
			continue
		}
		out = append(out, t)
	}
	SortTasks(out)
	return out
}

func SortTasks(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if a.IsCompleted != b.IsCompleted {
			return !a.IsCompleted
		}
		if a.DueDate != b.DueDate {
			return a.DueDate < b.DueDate
		}
		return a.Priority.Rank() < b.Priority.Rank()
	})
}
