package services

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDashboardFromSeed(t *testing.T) {
	st, _ := newTestStore(t)
	d := ReportsService{Store: st, Clock: fixedClock()}.Dashboard()

	assert.Equal(t, 5, d.TotalCustomers)
	assert.Equal(t, int64(250000), d.TotalRevenue)
	assert.Equal(t, int64(72500), d.TotalExpenses)
	assert.Equal(t, 6, d.ActiveBookings)
	assert.Equal(t, 4, d.OpenTasks)
	require.Len(t, d.DueTasks, 1)
	assert.Equal(t, "T001", d.DueTasks[0].ID)
	assert.Empty(t, d.RecentActivity)

	require.Len(t, d.Cashflow, 6)
	assert.Equal(t, "2023-12", d.Cashflow[0].Month)
	assert.Equal(t, "2024-05", d.Cashflow[5].Month)
	assert.Equal(t, int64(100000), d.Cashflow[1].Income)

	require.NotEmpty(t, d.PackageBookings)
	assert.Equal(t, domain.PackageCount{Package: "15-Day Umrah Economy", Count: 3}, d.PackageBookings[0])
}

func TestDashboardRecentActivityIsCapped(t *testing.T) {
	st, _ := newTestStore(t)
	act := ActivityService{Store: st, Clock: fixedClock()}
	for i := 0; i < 7; i++ {
		_, err := act.Record(context.Background(), adminActor, models.ActionUpdated, models.EntityTask, "T001", "touch")
		require.NoError(t, err)
	}
	d := ReportsService{Store: st, Clock: fixedClock()}.Dashboard()
	assert.Len(t, d.RecentActivity, 5)
}

func TestFinanceSummaryIncludesTicketSales(t *testing.T) {
	st, _ := newTestStore(t)
	r := ReportsService{Store: st, Clock: fixedClock()}.FinanceSummary()

	assert.Equal(t, int64(258200), r.TotalIncome)
	assert.Equal(t, int64(80000), r.TotalExpenses)
	assert.Equal(t, int64(178200), r.NetProfit)
	assert.Equal(t, int64(700), r.TicketProfit)
	require.Len(t, r.ExpensesByCategory, 4)
	assert.Equal(t, CategoryTotal{Category: "Salaries", Amount: 50000}, r.ExpensesByCategory[0])
}

func TestBuildReportTableBookingList(t *testing.T) {
	table, err := BuildReportTable(seedSnapshot, ReportBookingList)
	require.NoError(t, err)
	require.Len(t, table.Rows, 7)

	var b007 []any
	for _, r := range table.Rows {
		if r[0] == "B007" {
			b007 = r
		}
	}
	require.NotNil(t, b007)
	assert.Equal(t, "Flight Ticket", b007[2])
	assert.Equal(t, Money(8200), b007[4])
	assert.Equal(t, "EGP 8,200", formatCell(b007[4]))

	_, err = BuildReportTable(seedSnapshot, "payroll")
	assert.True(t, domain.IsValidation(err))
}

func TestDocsGenerateInvoiceAndReceipt(t *testing.T) {
	st, _ := newTestStore(t)
	docs := DocsService{Store: st, Clock: fixedClock()}

	pdf, name, err := docs.GenerateInvoice("B004")
	require.NoError(t, err)
	assert.Equal(t, "Invoice-B004.pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	pdf, name, err = docs.GenerateInvoice("B007")
	require.NoError(t, err, "ticket-only bookings have no package")
	assert.Equal(t, "Invoice-B007.pdf", name)
	assert.NotEmpty(t, pdf)

	pdf, name, err = docs.GenerateReceipt("PAY004")
	require.NoError(t, err)
	assert.Equal(t, "Receipt-PAY004.pdf", name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, _, err = docs.GenerateReceipt("PAY404")
	assert.True(t, domain.IsNotFound(err))
}

func TestDocsInvoiceNeedsPackage(t *testing.T) {
	st, _ := newTestStore(t)
	require.NoError(t, PackageService{Store: st, Clock: fixedClock()}.Delete(context.Background(), adminActor, "P03"))

	_, _, err := DocsService{Store: st, Clock: fixedClock()}.GenerateInvoice("B004")
	assert.True(t, domain.IsValidation(err))
}

func TestDocsGenerateReports(t *testing.T) {
	st, _ := newTestStore(t)
	docs := DocsService{Store: st, Clock: fixedClock()}
	for _, kind := range []ReportType{ReportCustomerList, ReportBookingList, ReportFinancialSummary} {
		pdf, name, err := docs.GenerateReport(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, string(kind)+".pdf", name)
		assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), kind)
	}
}

func TestBuildRoomingListRoomLayout(t *testing.T) {
	sheets, err := BuildRoomingList(seedSnapshot, LayoutRoom)
	require.NoError(t, err)

	require.Len(t, sheets, 2, "B006 is the only confirmed booking")
	assert.Equal(t, "Fairmont Makkah Clock Royal Tow", sheets[0].Name)
	assert.Equal(t, "Anwar Al Madinah Mövenpick", sheets[1].Name)
	for _, sh := range sheets {
		last := sh.Rows[len(sh.Rows)-1]
		assert.Equal(t, "WITHOUT BED", last[0])
		assert.Equal(t, "Omar Ahmed (Male, 5)", last[3])
	}
}

func TestBuildRoomingListFillsRoomsByCapacity(t *testing.T) {
	snap := store.Snapshot{
		Packages: []models.Package{{ID: "P1", Name: "Umrah", HotelMakkah: "Hilton"}},
	}
	for i, name := range []string{"A", "B", "C"} {
		id := string(rune('1' + i))
		snap.Customers = append(snap.Customers, models.Customer{ID: "C" + id, Name: name, Gender: models.GenderMale, Age: 30})
		snap.Bookings = append(snap.Bookings, models.Booking{ID: "B" + id, CustomerID: "C" + id, PackageID: "P1",
			Status: models.StatusConfirmed, RoomType: models.RoomDouble, Meals: models.MealBreakfast})
	}

	sheets, err := BuildRoomingList(snap, LayoutRoom)
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	rows := sheets[0].Rows
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0][1])
	assert.Equal(t, "A (Male, 30)\nB (Male, 30)", rows[0][3])
	assert.Equal(t, 2, rows[1][1])
	assert.Equal(t, "C (Male, 30)", rows[1][3])

	guests, err := BuildRoomingList(snap, LayoutGuest)
	require.NoError(t, err)
	assert.Len(t, guests[0].Rows, 3)

	_, err = BuildRoomingList(snap, "grid")
	assert.True(t, domain.IsValidation(err))
}

func TestUniqueSheetName(t *testing.T) {
	used := map[string]bool{}
	assert.Equal(t, "Dar (Al) Eiman", uniqueSheetName("Dar [Al] Eiman", used))
	assert.Equal(t, "dar (al) eiman (2)", uniqueSheetName("dar [al] eiman", used))
	long := strings.Repeat("x", 40)
	first := uniqueSheetName(long, used)
	second := uniqueSheetName(long, used)
	assert.Len(t, first, 31)
	assert.Len(t, second, 31)
	assert.True(t, strings.HasSuffix(second, " (2)"))
}

func TestSpreadsheetExportOpensInExcelize(t *testing.T) {
	st, _ := newTestStore(t)
	svc := SpreadsheetService{Store: st}

	out, name, err := svc.Export(ReportFinancialSummary)
	require.NoError(t, err)
	assert.Equal(t, "financialSummary.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Financial Summary"}, f.GetSheetList())
	v, err := f.GetCellValue("Financial Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "250000", v)

	out, name, err = svc.RoomingList(LayoutRoom)
	require.NoError(t, err)
	assert.Equal(t, "hotelRoomingList.xlsx", name)
	f2, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f2.Close()
	assert.Len(t, f2.GetSheetList(), 2)
}

func TestSpreadsheetRoomingListWithoutConfirmedBookings(t *testing.T) {
	out, _, err := SpreadsheetService{Store: emptyStore(t)}.RoomingList(LayoutGuest)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Rooming List"}, f.GetSheetList())
}
