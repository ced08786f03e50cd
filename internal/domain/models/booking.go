package models

import "strings"

// FlightDetails is attached to ticket-only sales and, optionally, to package bookings.
type FlightDetails struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flightNumber"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate"`
}

// Complete reports whether all four flight fields are filled in.
func (f FlightDetails) Complete() bool {
	return strings.TrimSpace(f.Airline) != "" &&
		strings.TrimSpace(f.FlightNumber) != "" &&
		strings.TrimSpace(f.DepartureDate) != "" &&
		strings.TrimSpace(f.ReturnDate) != ""
}

// Booking is either a package booking or a ticket-only sale (IsTicketOnly).
type Booking struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customerId"`
	PackageID       string         `json:"packageId"`
	BookingDate     string         `json:"bookingDate"`
	Status          BookingStatus  `json:"status"`
	FlightDetails   *FlightDetails `json:"flightDetails,omitempty"`
	RoomType        RoomType       `json:"roomType,omitempty"`
	Meals           MealType       `json:"meals,omitempty"`
	WithoutBed      bool           `json:"withoutBed,omitempty"`
	IsTicketOnly    bool           `json:"isTicketOnly,omitempty"`
	TicketCostPrice int64          `json:"ticketCostPrice,omitempty"`
	TicketTotalPaid int64          `json:"ticketTotalPaid,omitempty"`
	TotalPaid       int64          `json:"totalPaid,omitempty"`
}
