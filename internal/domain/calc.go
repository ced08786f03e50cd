package domain

import (
	"sort"
	"time"

	"backoffice/internal/domain/models"
)

// Projection is the derived financial view of one booking. Documents and
// reports read balances from here and never recompute them.
type Projection struct {
	BookingID        string `json:"bookingId"`
	TotalPrice       int64  `json:"totalPrice"`
	TotalPaid        int64  `json:"totalPaid"`
	RemainingBalance int64  `json:"remainingBalance"`
	TicketProfit     *int64 `json:"ticketProfit,omitempty"`
}

// TotalPaidForBooking is ticketTotalPaid for ticket-only sales, otherwise the
// sum of the booking's payments.
func TotalPaidForBooking(b models.Booking, payments []models.Payment) int64 {
	if b.IsTicketOnly {
		return b.TicketTotalPaid
	}
	var sum int64
	for _, p := range payments {
		if p.BookingID == b.ID {
			sum += p.Amount
		}
	}
	return sum
}

// TotalPrice uses the package price; an unresolved package yields 0.
func TotalPrice(b models.Booking, pkg *models.Package) int64 {
	if b.IsTicketOnly {
		return b.TicketTotalPaid
	}
	if pkg == nil {
		return 0
	}
	return pkg.Price
}

// RemainingBalance is not clamped and may be negative on overpayment.
func RemainingBalance(b models.Booking, pkg *models.Package, payments []models.Payment) int64 {
	return TotalPrice(b, pkg) - TotalPaidForBooking(b, payments)
}

// TicketProfit applies to ticket-only sales only.
func TicketProfit(b models.Booking) (int64, bool) {
	if !b.IsTicketOnly {
		return 0, false
	}
	return b.TicketTotalPaid - b.TicketCostPrice, true
}

func Project(b models.Booking, pkg *models.Package, payments []models.Payment) Projection {
	paid := TotalPaidForBooking(b, payments)
	price := TotalPrice(b, pkg)
	out := Projection{
		BookingID:        b.ID,
		TotalPrice:       price,
		TotalPaid:        paid,
		RemainingBalance: price - paid,
	}
	if profit, ok := TicketProfit(b); ok {
		out.TicketProfit = &profit
	}
	return out
}

type FinanceSummary struct {
	PaymentIncome int64 `json:"paymentIncome"`
	TicketRevenue int64 `json:"ticketRevenue"`
	TotalIncome   int64 `json:"totalIncome"`
	ExpenseTotal  int64 `json:"expenseTotal"`
	TicketCost    int64 `json:"ticketCost"`
	TotalExpenses int64 `json:"totalExpenses"`
	NetProfit     int64 `json:"netProfit"`
	TicketProfit  int64 `json:"ticketProfit"`
	TicketSales   int   `json:"ticketSales"`
	PaymentCount  int   `json:"paymentCount"`
	ExpenseCount  int   `json:"expenseCount"`
}

// SummarizeFinance counts ticket-only revenue as income and ticket cost as an
// expense alongside itemized payments and expenses.
func SummarizeFinance(bookings []models.Booking, payments []models.Payment, expenses []models.Expense) FinanceSummary {
	var s FinanceSummary
	for _, p := range payments {
		s.PaymentIncome += p.Amount
	}
	for _, e := range expenses {
		s.ExpenseTotal += e.Amount
	}
	for _, b := range bookings {
		if !b.IsTicketOnly {
			continue
		}
		s.TicketSales++
		s.TicketRevenue += b.TicketTotalPaid
		s.TicketCost += b.TicketCostPrice
	}
	s.PaymentCount = len(payments)
	s.ExpenseCount = len(expenses)
	s.TotalIncome = s.PaymentIncome + s.TicketRevenue
	s.TotalExpenses = s.ExpenseTotal + s.TicketCost
	s.NetProfit = s.TotalIncome - s.TotalExpenses
	s.TicketProfit = s.TicketRevenue - s.TicketCost
	return s
}

type MonthTotals struct {
	Month    string `json:"month"` // YYYY-MM
	Label    string `json:"label"`
	Income   int64  `json:"income"`
	Expenses int64  `json:"expenses"`
}

// MonthlyCashflow buckets payments and expenses into the last n calendar
// months ending with now's month, oldest first. Unparsable dates are skipped.
func MonthlyCashflow(payments []models.Payment, expenses []models.Expense, now time.Time, n int) []MonthTotals {
	if n <= 0 {
		return nil
	}
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]MonthTotals, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i-(n-1), 0)
		key := m.Format("2006-01")
		out[i] = MonthTotals{Month: key, Label: m.Format("Jan")}
		index[key] = i
	}
	for _, p := range payments {
		if i, ok := index[monthKey(p.PaymentDate)]; ok {
			out[i].Income += p.Amount
		}
	}
	for _, e := range expenses {
		if i, ok := index[monthKey(e.ExpenseDate)]; ok {
			out[i].Expenses += e.Amount
		}
	}
	return out
}

func monthKey(date string) string {
	if len(date) < 7 {
		return ""
	}
	return date[:7]
}

type PackageCount struct {
	Package string `json:"package"`
	Count   int    `json:"count"`
}

// BookingsPerPackage counts package bookings by package name, most booked first.
func BookingsPerPackage(bookings []models.Booking, packages []models.Package) []PackageCount {
	names := make(map[string]string, len(packages))
	for _, p := range packages {
		names[p.ID] = p.Name
	}
	counts := map[string]int{}
	for _, b := range bookings {
		if name, ok := names[b.PackageID]; ok {
			counts[name]++
		}
	}
	out := make([]PackageCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, PackageCount{Package: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Package < out[j].Package
	})
	return out
}
