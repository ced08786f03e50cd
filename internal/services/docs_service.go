package services

import (
	"bytes"
	"fmt"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"

	"github.com/phpdave11/gofpdf"
)

const (
	companyName    = "Nuba Flower Tours"
	companyAddress = "6 Sultan St. behind Egypt Air office, Aswan"
	companyContact = "Mobile: +201098888525 - Email: nft7@gmail.com"
)

// DocsService renders booking invoices, payment receipts and tabular reports as PDF.
type DocsService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type invoiceData struct {
	Booking    models.Booking
	Customer   models.Customer
	Package    *models.Package
	Payments   []models.Payment
	Projection domain.Projection
}

func (s DocsService) loadInvoiceData(bookingID string) (invoiceData, error) {
	snap := s.Store.Snapshot()
	i := store.IndexOf(snap.Bookings, bookingID, store.BookingKey)
	if i < 0 {
		return invoiceData{}, notFound("booking", bookingID)
	}
	b := snap.Bookings[i]
	ci := store.IndexOf(snap.Customers, b.CustomerID, store.CustomerKey)
	if ci < 0 {
		return invoiceData{}, notFound("customer", b.CustomerID)
	}
	pkg := packageFor(&snap, b.PackageID)
	if !b.IsTicketOnly && pkg == nil {
		return invoiceData{}, domain.ValidationError{Field: "packageId", Msg: "the booked package no longer exists"}
	}

	var paid []models.Payment
	for _, p := range snap.Payments {
		if p.BookingID == b.ID {
			paid = append(paid, p)
		}
	}
	return invoiceData{
		Booking:    b,
		Customer:   snap.Customers[ci],
		Package:    pkg,
		Payments:   paid,
		Projection: domain.Project(b, pkg, snap.Payments),
	}, nil
}

// GenerateInvoice returns the PDF bytes and a download filename.
func (s DocsService) GenerateInvoice(bookingID string) ([]byte, string, error) {
	data, err := s.loadInvoiceData(bookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_invoice", "booking_id="+bookingID)
	return buildInvoicePDF(data, utils.FormatDate(s.Clock.now()))
}

// GenerateReceipt renders a receipt for one payment with the booking balance after it.
func (s DocsService) GenerateReceipt(paymentID string) ([]byte, string, error) {
	p, ok := s.Store.Payment(paymentID)
	if !ok {
		return nil, "", notFound("payment", paymentID)
	}
	data, err := s.loadInvoiceData(p.BookingID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", "payment_id="+paymentID)
	return buildReceiptPDF(p, data)
}

// GenerateReport renders customerList, bookingList or financialSummary as a table.
func (s DocsService) GenerateReport(kind ReportType) ([]byte, string, error) {
	table, err := BuildReportTable(s.Store.Snapshot(), kind)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_report", "type="+string(kind))

	pdf := newDocument(table.Title)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr(companyName+" - "+table.Title))
	pdf.Ln(10)

	rows := make([][]string, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = make([]string, len(r))
		for j, v := range r {
			rows[i][j] = formatCell(v)
		}
	}
	drawTable(pdf, tr, table.Head, rows)

	out, err := render(pdf)
	if err != nil {
		return nil, "", err
	}
	return out, string(kind) + ".pdf", nil
}

func newDocument(title string) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(14, 15, 14)
	pdf.AddPage()
	return pdf
}

func render(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func letterhead(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(34, 197, 94)
	pdf.Cell(0, 9, tr(companyName))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 5, tr(companyAddress))
	pdf.Ln(5)
	pdf.Cell(0, 5, tr(companyContact))
	pdf.Ln(12)
	pdf.SetTextColor(0, 0, 0)
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(40, 40, 40)
	pdf.Cell(0, 10, tr(title))
	pdf.Ln(11)
	pdf.SetLineWidth(0.5)
	x, y := pdf.GetXY()
	pdf.Line(x, y, 196, y)
	pdf.Ln(6)
	pdf.SetTextColor(0, 0, 0)
}

func buildInvoicePDF(d invoiceData, today string) ([]byte, string, error) {
	title := "INVOICE"
	if d.Booking.IsTicketOnly {
		title = "FLIGHT TICKET INVOICE"
	}
	pdf := newDocument("Invoice " + d.Booking.ID)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	letterhead(pdf, tr)
	heading(pdf, tr, title)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Booking ID   : " + d.Booking.ID,
		"Booking Date : " + utils.Fallback(d.Booking.BookingDate, "-"),
		"Invoice Date : " + today,
	} {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)
	billTo(pdf, tr, d.Customer)

	drawTable(pdf, tr, []string{"Item", "Details"}, invoiceItems(d))

	if len(d.Payments) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Payment History")
		pdf.Ln(8)
		rows := make([][]string, len(d.Payments))
		for i, p := range d.Payments {
			rows[i] = []string{p.PaymentDate, p.Method.Label(), utils.FormatEGP(p.Amount)}
		}
		drawTable(pdf, tr, []string{"Payment Date", "Method", "Amount"}, rows)
	}

	pdf.Ln(8)
	if d.Booking.IsTicketOnly {
		summaryLine(pdf, tr, "Total Paid:", utils.FormatEGP(d.Projection.TotalPaid), true)
	} else {
		summaryLine(pdf, tr, "Subtotal:", utils.FormatEGP(d.Projection.TotalPrice), false)
		summaryLine(pdf, tr, "Amount Paid:", utils.FormatEGP(d.Projection.TotalPaid), false)
		summaryLine(pdf, tr, "Amount Due:", utils.FormatEGP(d.Projection.RemainingBalance), true)
	}
	footer(pdf)

	out, err := render(pdf)
	if err != nil {
		return nil, "", err
	}
	return out, fmt.Sprintf("Invoice-%s.pdf", utils.SafeFilenamePart(d.Booking.ID)), nil
}

func invoiceItems(d invoiceData) [][]string {
	var rows [][]string
	if !d.Booking.IsTicketOnly && d.Package != nil {
		p := d.Package
		rows = append(rows,
			[]string{"Package", fmt.Sprintf("%s (%d days)", p.Name, p.Duration)},
			[]string{"Hotel Makkah", utils.Fallback(p.HotelMakkah, "N/A")},
			[]string{"Hotel Madinah", utils.Fallback(p.HotelMadinah, "N/A")},
		)
		if d.Booking.WithoutBed {
			rows = append(rows, []string{"Room Type", "Without Bed"})
		} else {
			rows = append(rows,
				[]string{"Room Type", utils.Fallback(d.Booking.RoomType.Label(), "N/A")},
				[]string{"Meals", utils.Fallback(d.Booking.Meals.Label(), "N/A")},
			)
		}
	}
	if f := d.Booking.FlightDetails; f != nil {
		rows = append(rows,
			[]string{"Airline", f.Airline + " - " + f.FlightNumber},
			[]string{"Departure Date", f.DepartureDate},
			[]string{"Return Date", f.ReturnDate},
		)
	}
	return rows
}

func buildReceiptPDF(p models.Payment, d invoiceData) ([]byte, string, error) {
	pdf := newDocument("Receipt " + p.ID)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	letterhead(pdf, tr)
	heading(pdf, tr, "RECEIPT")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Receipt No   : " + p.ID,
		"Payment Date : " + p.PaymentDate,
		"Booking ID   : " + d.Booking.ID,
	} {
		pdf.Cell(0, 6, tr(line))
		pdf.Ln(6)
	}
	pdf.Ln(4)
	billTo(pdf, tr, d.Customer)

	item := "Flight ticket"
	if d.Package != nil {
		item = d.Package.Name
	}
	drawTable(pdf, tr, []string{"Description", "Method", "Amount"}, [][]string{
		{"Payment for " + item, p.Method.Label(), utils.FormatEGP(p.Amount)},
	})

	pdf.Ln(8)
	summaryLine(pdf, tr, "Amount Received:", utils.FormatEGP(p.Amount), true)
	if !d.Booking.IsTicketOnly {
		summaryLine(pdf, tr, "Total Paid:", utils.FormatEGP(d.Projection.TotalPaid), false)
		summaryLine(pdf, tr, "Remaining Balance:", utils.FormatEGP(d.Projection.RemainingBalance), false)
	}
	footer(pdf)

	out, err := render(pdf)
	if err != nil {
		return nil, "", err
	}
	return out, fmt.Sprintf("Receipt-%s.pdf", utils.SafeFilenamePart(p.ID)), nil
}

func billTo(pdf *gofpdf.Fpdf, tr func(string) string, c models.Customer) {
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 100, 100)
	pdf.Cell(0, 6, "Bill To")
	pdf.Ln(6)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{c.Name, c.Email, c.Phone, "Passport Number: " + c.PassportNumber} {
		if line == "" {
			continue
		}
		pdf.Cell(0, 5, tr(line))
		pdf.Ln(5)
	}
	pdf.Ln(6)
}

func summaryLine(pdf *gofpdf.Fpdf, tr func(string) string, label, value string, bold bool) {
	style, size := "", 12.0
	if bold {
		style, size = "B", 14
	}
	pdf.SetFont("Helvetica", style, size)
	pdf.SetX(110)
	pdf.CellFormat(45, 7, tr(label), "", 0, "R", false, 0, "")
	pdf.CellFormat(41, 7, tr(value), "", 1, "R", false, 0, "")
}

func footer(pdf *gofpdf.Fpdf) {
	pdf.SetY(-20)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 6, "Thank you for your business!", "", 0, "C", false, 0, "")
}

// drawTable spreads the columns evenly over the printable width.
func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, head []string, rows [][]string) {
	if len(head) == 0 {
		return
	}
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	w := (pageW - left - right) / float64(len(head))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(22, 101, 52)
	pdf.SetTextColor(255, 255, 255)
	for _, h := range head {
		pdf.CellFormat(w, 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for i, r := range rows {
		pdf.SetFillColor(245, 245, 245)
		for j := range head {
			cell := ""
			if j < len(r) {
				cell = r[j]
			}
			pdf.CellFormat(w, 7, tr(cell), "1", 0, "L", i%2 == 1, 0, "")
		}
		pdf.Ln(-1)
	}
}
