package services

import (
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

type ReportType string

const (
	ReportCustomerList     ReportType = "customerList"
	ReportBookingList      ReportType = "bookingList"
	ReportFinancialSummary ReportType = "financialSummary"
	ReportHotelRoomingList ReportType = "hotelRoomingList"
)

var reportTitles = map[ReportType]string{
	ReportCustomerList:     "Customer List",
	ReportBookingList:      "Booking List",
	ReportFinancialSummary: "Financial Summary",
	ReportHotelRoomingList: "Hotel Rooming List",
}

// Money marks an amount cell: PDFs print it as EGP, spreadsheets keep the number.
type Money int64

// ReportTable is one tabular report, shared by the PDF and spreadsheet renderers.
type ReportTable struct {
	Type  ReportType
	Title string
	Head  []string
	Rows  [][]any
}

// BuildReportTable covers every report type except the rooming list, which has
// its own per-hotel layout.
func BuildReportTable(snap store.Snapshot, kind ReportType) (ReportTable, error) {
	t := ReportTable{Type: kind, Title: reportTitles[kind]}
	switch kind {
	case ReportCustomerList:
		t.Head = []string{"Customer Name", "Phone", "Passport Number", "Passport Expiry"}
		for _, c := range snap.Customers {
			t.Rows = append(t.Rows, []any{c.Name, c.Phone, c.PassportNumber, c.PassportExpiry})
		}
	case ReportBookingList:
		t.Head = []string{"Booking ID", "Customer", "Package", "Status", "Total Paid"}
		for _, b := range snap.Bookings {
			v := bookingView(&snap, b)
			pkg := utils.Fallback(v.PackageName, "N/A")
			if b.IsTicketOnly {
				pkg = "Flight Ticket"
			}
			t.Rows = append(t.Rows, []any{b.ID, v.CustomerName, pkg, b.Status.Label(), Money(v.Financials.TotalPaid)})
		}
	case ReportFinancialSummary:
		s := domain.SummarizeFinance(snap.Bookings, snap.Payments, snap.Expenses)
		t.Head = []string{"Category", "Amount"}
		t.Rows = [][]any{
			{"Income", Money(s.PaymentIncome)},
			{"Ticket Revenue", Money(s.TicketRevenue)},
			{"Expenses", Money(s.ExpenseTotal)},
			{"Ticket Cost", Money(s.TicketCost)},
			{"Profit", Money(s.NetProfit)},
		}
	default:
		return ReportTable{}, domain.ValidationError{Field: "type", Msg: fmt.Sprintf("unknown report type %q", kind)}
	}
	return t, nil
}

func formatCell(v any) string {
	switch x := v.(type) {
	case Money:
		return utils.FormatEGP(int64(x))
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
