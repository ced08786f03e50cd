package rules

import (
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/utils"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func validCustomerDraft() CustomerDraft {
	return CustomerDraft{
		Name:           "Fatima Ali",
		Phone:          "+201187654321",
		PassportNumber: "B87654321",
		PassportExpiry: "2029-11-20",
		Age:            28,
		Gender:         models.GenderFemale,
	}
}

func TestCheckPassportValidity(t *testing.T) {
	cases := []struct {
		expiry, reference string
		want              bool
	}{
		{"2024-09-01", "2024-03-01", true},
		{"2024-08-31", "2024-03-01", false},
		{"2024-06-01", "2024-03-01", false},
		// Aug 31 + 6 months overflows Feb and normalizes into March.
		{"2025-03-03", "2024-08-31", true},
		{"2025-03-02", "2024-08-31", false},
		// year rollover
		{"2025-05-15", "2024-11-15", true},
	}
	for _, tc := range cases {
		got := CheckPassportValidity(mustDate(t, tc.expiry), mustDate(t, tc.reference))
		if got != tc.want {
			t.Fatalf("CheckPassportValidity(%s, %s) = %v, want %v", tc.expiry, tc.reference, got, tc.want)
		}
	}
}

func TestMinPassportExpiry(t *testing.T) {
	got := utils.FormatDate(MinPassportExpiry(mustDate(t, "2024-03-01")))
	if got != "2024-09-01" {
		t.Fatalf("got %s", got)
	}
}

func TestValidateCustomer_RequiredFields(t *testing.T) {
	ctx := CustomerContext{Today: mustDate(t, "2024-01-01")}
	for _, field := range []string{"name", "phone", "passportNumber", "passportExpiry"} {
		d := validCustomerDraft()
		switch field {
		case "name":
			d.Name = " "
		case "phone":
			d.Phone = ""
		case "passportNumber":
			d.PassportNumber = ""
		case "passportExpiry":
			d.PassportExpiry = ""
		}
		_, err := ValidateCustomer(d, ctx)
		re := wantKind(t, err, MissingRequiredField)
		if re.Field != field {
			t.Fatalf("field: got %q want %q", re.Field, field)
		}
	}
}

func TestValidateCustomer_AgeAndGender(t *testing.T) {
	ctx := CustomerContext{Today: mustDate(t, "2024-01-01")}

	d := validCustomerDraft()
	d.Age = -1
	if _, err := ValidateCustomer(d, ctx); !domain.IsValidation(err) {
		t.Fatalf("negative age should fail validation, got %v", err)
	}

	d = validCustomerDraft()
	d.Age = 0
	if _, err := ValidateCustomer(d, ctx); err != nil {
		t.Fatalf("infants (age 0) are allowed: %v", err)
	}

	d = validCustomerDraft()
	d.Gender = "Other"
	if _, err := ValidateCustomer(d, ctx); !domain.IsValidation(err) {
		t.Fatalf("unknown gender should fail validation, got %v", err)
	}
}

func TestValidateCustomer_TodayReference(t *testing.T) {
	d := validCustomerDraft()
	d.PassportExpiry = "2024-05-01"
	_, err := ValidateCustomer(d, CustomerContext{Today: mustDate(t, "2024-01-01")})
	re := wantKind(t, err, PassportSoonToExpire)
	if re.MinExpiry != "2024-07-01" {
		t.Fatalf("minExpiry: got %s", re.MinExpiry)
	}
}

func TestValidateCustomer_ExplicitDepartureReference(t *testing.T) {
	d := validCustomerDraft()
	d.PassportExpiry = "2024-09-15"
	d.FlightDepartureDate = "2024-04-01"
	_, err := ValidateCustomer(d, CustomerContext{Today: mustDate(t, "2024-01-01")})
	wantKind(t, err, PassportExpiringTooSoon)
}

func TestValidateCustomer_EarliestFutureDeparture(t *testing.T) {
	bookings := []models.Booking{
		{ID: "B1", CustomerID: "C002", FlightDetails: &models.FlightDetails{DepartureDate: "2023-12-10"}},
		{ID: "B2", CustomerID: "C002", FlightDetails: &models.FlightDetails{DepartureDate: "2024-08-01"}},
		{ID: "B3", CustomerID: "C002", FlightDetails: &models.FlightDetails{DepartureDate: "2024-05-01"}},
		{ID: "B4", CustomerID: "C999", FlightDetails: &models.FlightDetails{DepartureDate: "2024-02-01"}},
	}
	today := mustDate(t, "2024-01-01")

	got, ok := EarliestFutureDeparture("C002", bookings, today)
	if !ok || utils.FormatDate(got) != "2024-05-01" {
		t.Fatalf("earliest future departure: got %v %v", got, ok)
	}

	d := validCustomerDraft()
	d.ID = "C002"
	// valid six months past today but not past the May departure
	d.PassportExpiry = "2024-09-01"
	_, err := ValidateCustomer(d, CustomerContext{Bookings: bookings, Today: today})
	re := wantKind(t, err, PassportExpiringTooSoon)
	if re.MinExpiry != "2024-11-01" {
		t.Fatalf("minExpiry: got %s", re.MinExpiry)
	}

	// past departures alone fall back to today
	past := bookings[:1]
	if _, err := ValidateCustomer(d, CustomerContext{Bookings: past, Today: today}); err != nil {
		t.Fatalf("past departures must be ignored: %v", err)
	}
}

func TestValidateCustomer_NewCustomerIgnoresBookings(t *testing.T) {
	bookings := []models.Booking{
		{ID: "B1", CustomerID: "", FlightDetails: &models.FlightDetails{DepartureDate: "2024-05-01"}},
	}
	d := validCustomerDraft()
	d.PassportExpiry = "2024-09-01"
	if _, err := ValidateCustomer(d, CustomerContext{Bookings: bookings, Today: mustDate(t, "2024-01-01")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
