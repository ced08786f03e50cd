package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

// ExpenseService covers operating expenses and the category list they draw from.
type ExpenseService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type ExpenseInput struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	ExpenseDate string `json:"expenseDate"`
	VATAmount   int64  `json:"vatAmount"`
	PaidTo      string `json:"paidTo"`
}

type ExpenseFilter struct {
	Category string `form:"category"`
	domain.DateRange
}

func (s ExpenseService) Create(ctx context.Context, actor domain.Actor, in ExpenseInput) (models.Expense, error) {
	now := s.Clock.now()
	e := models.Expense{
		Category:    strings.TrimSpace(in.Category),
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		ExpenseDate: strings.TrimSpace(in.ExpenseDate),
		VATAmount:   in.VATAmount,
		PaidTo:      strings.TrimSpace(in.PaidTo),
	}
	if e.ExpenseDate == "" {
		e.ExpenseDate = utils.FormatDate(now)
	}
	switch {
	case e.Description == "":
		return models.Expense{}, domain.ValidationError{Field: "description", Msg: "required"}
	case e.Category == "":
		return models.Expense{}, domain.ValidationError{Field: "category", Msg: "required"}
	case e.Amount <= 0:
		return models.Expense{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	case e.VATAmount < 0:
		return models.Expense{}, domain.ValidationError{Field: "vatAmount", Msg: "must not be negative"}
	}
	if _, err := utils.ParseDate(e.ExpenseDate); err != nil {
		return models.Expense{}, domain.ValidationError{Field: "expenseDate", Msg: "expected YYYY-MM-DD", Err: err}
	}

	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		if categoryIndex(snap.ExpenseCategories, e.Category, "") < 0 {
			return domain.ValidationError{Field: "category", Msg: "unknown category " + e.Category}
		}
		e.ID = newID("E", func(id string) bool { return store.IndexOf(snap.Expenses, id, store.ExpenseKey) >= 0 })
		snap.Expenses = append([]models.Expense{e}, snap.Expenses...)
		record(snap, now, actor, models.ActionCreated, models.EntityExpense, e.ID,
			fmt.Sprintf("of %s for %s", utils.FormatThousands(e.Amount), e.Description))
		return nil
	})
	if err != nil {
		return models.Expense{}, err
	}
	utils.LogEvent(s.RequestID, "expense", "create", "expense_id="+e.ID)
	return e, nil
}

func (s ExpenseService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Expenses, id, store.ExpenseKey)
		if i < 0 {
			return notFound("expense", id)
		}
		desc := snap.Expenses[i].Description
		snap.Expenses, _ = store.Remove(snap.Expenses, id, store.ExpenseKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityExpense, id, desc)
		return nil
	})
}

// List returns expenses newest first.
func (s ExpenseService) List(f ExpenseFilter) []models.Expense {
	all := s.Store.Expenses()
	out := make([]models.Expense, 0, len(all))
	for _, e := range all {
		if f.Category != "" && f.Category != "All" && !strings.EqualFold(e.Category, f.Category) {
			continue
		}
		if !f.DateRange.Contains(e.ExpenseDate) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpenseDate > out[j].ExpenseDate })
	return out
}

func (s ExpenseService) Categories() []models.ExpenseCategory {
	out := s.Store.ExpenseCategories()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// SaveCategory creates or renames a category. Names are unique, case-insensitively.
func (s ExpenseService) SaveCategory(ctx context.Context, actor domain.Actor, c models.ExpenseCategory) (models.ExpenseCategory, error) {
	c.Name = utils.NormalizeSpace(c.Name)
	if c.Name == "" {
		return models.ExpenseCategory{}, domain.ValidationError{Field: "name", Msg: "required"}
	}
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		action := models.ActionCreated
		if c.ID != "" {
			if store.IndexOf(snap.ExpenseCategories, c.ID, store.CategoryKey) < 0 {
				return notFound("expense category", c.ID)
			}
			action = models.ActionUpdated
		}
		if categoryIndex(snap.ExpenseCategories, c.Name, c.ID) >= 0 {
			return domain.ConflictError{Resource: "expense category", Msg: c.Name + " already exists"}
		}
		if c.ID == "" {
			c.ID = newID("cat-", func(id string) bool { return store.IndexOf(snap.ExpenseCategories, id, store.CategoryKey) >= 0 })
		}
		snap.ExpenseCategories = store.Upsert(snap.ExpenseCategories, c, store.CategoryKey)
		record(snap, now, actor, action, models.EntityExpenseCategory, c.ID, c.Name)
		return nil
	})
	if err != nil {
		return models.ExpenseCategory{}, err
	}
	return c, nil
}

// DeleteCategory removes the category; expenses keep the name they were filed under.
func (s ExpenseService) DeleteCategory(ctx context.Context, actor domain.Actor, id string) error {
	now := s.Clock.now()
	return s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.ExpenseCategories, id, store.CategoryKey)
		if i < 0 {
			return notFound("expense category", id)
		}
		name := snap.ExpenseCategories[i].Name
		snap.ExpenseCategories, _ = store.Remove(snap.ExpenseCategories, id, store.CategoryKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityExpenseCategory, id, name)
		return nil
	})
}

// categoryIndex finds a category by name, ignoring the one with id exceptID.
func categoryIndex(cats []models.ExpenseCategory, name, exceptID string) int {
	for i, c := range cats {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return i
		}
	}
	return -1
}
