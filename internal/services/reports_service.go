package services

import (
	"sort"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

const (
	dashboardMonths   = 6
	dashboardActivity = 5
)

type ReportsService struct {
	Store *store.Store
	Clock Clock
}

type Dashboard struct {
	TotalCustomers  int                       `json:"totalCustomers"`
	TotalRevenue    int64                     `json:"totalRevenue"`
	TotalExpenses   int64                     `json:"totalExpenses"`
	ActiveBookings  int                       `json:"activeBookings"`
	Cashflow        []domain.MonthTotals      `json:"cashflow"`
	PackageBookings []domain.PackageCount     `json:"packageBookings"`
	RecentActivity  []models.ActivityLogEntry `json:"recentActivity"`
	OpenTasks       int                       `json:"openTasks"`
	DueTasks        []models.Task             `json:"dueTasks"`
}

// Dashboard counts revenue from recorded payments only; ticket-only sales
// appear in FinanceSummary.
func (s ReportsService) Dashboard() Dashboard {
	snap := s.Store.Snapshot()
	now := s.Clock.now()

	d := Dashboard{
		TotalCustomers:  len(snap.Customers),
		Cashflow:        domain.MonthlyCashflow(snap.Payments, snap.Expenses, now, dashboardMonths),
		PackageBookings: domain.BookingsPerPackage(snap.Bookings, snap.Packages),
		DueTasks:        []models.Task{},
	}
	for _, p := range snap.Payments {
		d.TotalRevenue += p.Amount
	}
	for _, e := range snap.Expenses {
		d.TotalExpenses += e.Amount
	}
	for _, b := range snap.Bookings {
		if b.Status.Active() {
			d.ActiveBookings++
		}
	}

	recent := snap.ActivityLog
	if len(recent) > dashboardActivity {
		recent = recent[:dashboardActivity]
	}
	d.RecentActivity = recent

	today := utils.FormatDate(now)
	for _, t := range snap.Tasks {
		if t.IsCompleted {
			continue
		}
		d.OpenTasks++
		if t.DueDate <= today {
			d.DueTasks = append(d.DueTasks, t)
		}
	}
	SortTasks(d.DueTasks)
	return d
}

type CategoryTotal struct {
	Category string `json:"category"`
	Amount   int64  `json:"amount"`
}

type FinanceReport struct {
	domain.FinanceSummary
	ExpensesByCategory []CategoryTotal      `json:"expensesByCategory"`
	Cashflow           []domain.MonthTotals `json:"cashflow"`
}

func (s ReportsService) FinanceSummary() FinanceReport {
	snap := s.Store.Snapshot()
	return FinanceReport{
		FinanceSummary:     domain.SummarizeFinance(snap.Bookings, snap.Payments, snap.Expenses),
		ExpensesByCategory: expensesByCategory(snap.Expenses),
		Cashflow:           domain.MonthlyCashflow(snap.Payments, snap.Expenses, s.Clock.now(), dashboardMonths),
	}
}

func expensesByCategory(expenses []models.Expense) []CategoryTotal {
	totals := map[string]int64{}
	for _, e := range expenses {
		totals[e.Category] += e.Amount
	}
	out := make([]CategoryTotal, 0, len(totals))
	for c, a := range totals {
		out = append(out, CategoryTotal{Category: c, Amount: a})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}
