package rules

import (
	"strings"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/utils"
)

// CustomerDraft is a customer create or edit. FlightDepartureDate is set when
// the customer is created from the booking form alongside a flight.
type CustomerDraft struct {
	ID                  string                `json:"id"`
	Name                string                `json:"name"`
	Phone               string                `json:"phone"`
	Email               string                `json:"email"`
	PassportNumber      string                `json:"passportNumber"`
	PassportExpiry      string                `json:"passportExpiry"`
	Age                 int                   `json:"age"`
	Gender              models.Gender         `json:"gender"`
	Documents           []models.DocumentFile `json:"documents"`
	DateAdded           string                `json:"dateAdded"`
	FlightDepartureDate string                `json:"flightDepartureDate,omitempty"`
}

// CustomerContext carries the existing bookings and the current day.
type CustomerContext struct {
	Bookings []models.Booking
	Today    time.Time
}

// ValidateCustomer enforces required fields and the passport rule, using as
// reference date the explicit flight departure, else the customer's earliest
// future departure, else today.
func ValidateCustomer(d CustomerDraft, ctx CustomerContext) (models.Customer, error) {
	out := models.Customer{
		ID:             d.ID,
		Name:           strings.TrimSpace(d.Name),
		Phone:          strings.TrimSpace(d.Phone),
		Email:          strings.TrimSpace(d.Email),
		PassportNumber: strings.TrimSpace(d.PassportNumber),
		PassportExpiry: strings.TrimSpace(d.PassportExpiry),
		Age:            d.Age,
		Gender:         d.Gender,
		Documents:      d.Documents,
		DateAdded:      strings.TrimSpace(d.DateAdded),
	}
	if out.Documents == nil {
		out.Documents = []models.DocumentFile{}
	}

	for _, f := range []struct{ name, value string }{
		{"name", out.Name},
		{"phone", out.Phone},
		{"passportNumber", out.PassportNumber},
		{"passportExpiry", out.PassportExpiry},
	} {
		if f.value == "" {
			return models.Customer{}, fail(MissingRequiredField, f.name)
		}
	}
	if out.Age < 0 {
		return models.Customer{}, malformed("age", "must not be negative")
	}
	if out.Gender == "" {
		out.Gender = models.GenderMale
	}
	if !out.Gender.Valid() {
		return models.Customer{}, malformed("gender", "unknown gender")
	}
	for _, doc := range out.Documents {
		if !doc.Type.Valid() {
			return models.Customer{}, malformed("documents", "unknown document type")
		}
	}

	today := ctx.Today
	if today.IsZero() {
		today = time.Now()
	}
	today = utils.StartOfDay(today)
	reference, kind, err := passportReference(d, ctx.Bookings, today)
	if err != nil {
		return models.Customer{}, err
	}
	if err := guardPassport(out.PassportExpiry, reference, kind); err != nil {
		return models.Customer{}, err
	}
	return out, nil
}

func passportReference(d CustomerDraft, bookings []models.Booking, today time.Time) (time.Time, Kind, error) {
	if !blank(d.FlightDepartureDate) {
		t, err := parseDate("flightDepartureDate", d.FlightDepartureDate)
		if err != nil {
			return time.Time{}, "", err
		}
		return t, PassportExpiringTooSoon, nil
	}
	if d.ID != "" {
		if t, ok := EarliestFutureDeparture(d.ID, bookings, today); ok {
			return t, PassportExpiringTooSoon, nil
		}
	}
	return today, PassportSoonToExpire, nil
}

// EarliestFutureDeparture finds the first departure after today among the
// customer's bookings. Past departures and unparsable dates are ignored.
func EarliestFutureDeparture(customerID string, bookings []models.Booking, today time.Time) (time.Time, bool) {
	var (
		best  time.Time
		found bool
	)
	for _, b := range bookings {
		if b.CustomerID != customerID || b.FlightDetails == nil || blank(b.FlightDetails.DepartureDate) {
			continue
		}
		t, err := parseDate("departureDate", b.FlightDetails.DepartureDate)
		if err != nil || !t.After(today) {
			continue
		}
		if !found || t.Before(best) {
			best, found = t, true
		}
	}
	return best, found
}
