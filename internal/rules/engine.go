package rules

import (
	"strings"

	"backoffice/internal/domain/models"
)

// ChildAgeLimit is the age below which a guest never gets a bed.
const ChildAgeLimit = 10

// BookingDraft is a proposed booking. A non-empty ID marks an update.
// FlightDetails is nil unless the operator opened the flight section.
type BookingDraft struct {
	ID              string                `json:"id"`
	CustomerID      string                `json:"customerId"`
	PackageID       string                `json:"packageId"`
	BookingDate     string                `json:"bookingDate"`
	Status          models.BookingStatus  `json:"status"`
	FlightDetails   *models.FlightDetails `json:"flightDetails"`
	RoomType        models.RoomType       `json:"roomType"`
	Meals           models.MealType       `json:"meals"`
	WithoutBed      bool                  `json:"withoutBed"`
	IsTicketOnly    bool                  `json:"isTicketOnly"`
	TicketCostPrice int64                 `json:"ticketCostPrice"`
	TicketTotalPaid int64                 `json:"ticketTotalPaid"`
	TotalPaid       int64                 `json:"totalPaid"`
}

// Context is a read-only view of the collections a booking refers to.
type Context struct {
	Customers []models.Customer
	Packages  []models.Package
	Bookings  []models.Booking
}

func (c Context) customer(id string) (models.Customer, bool) {
	for _, cu := range c.Customers {
		if cu.ID == id {
			return cu, true
		}
	}
	return models.Customer{}, false
}

func (c Context) pkg(id string) (models.Package, bool) {
	for _, p := range c.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return models.Package{}, false
}

// ValidateAndNormalize checks a draft against the booking invariants and
// returns the booking to store. It is pure: same draft and context, same result.
func ValidateAndNormalize(d BookingDraft, ctx Context) (models.Booking, error) {
	if err := checkEnums(d); err != nil {
		return models.Booking{}, err
	}

	// customer
	customerID := strings.TrimSpace(d.CustomerID)
	if customerID == "" {
		return models.Booking{}, fail(MissingCustomer, "customerId")
	}
	customer, ok := ctx.customer(customerID)
	if !ok {
		return models.Booking{}, fail(MissingCustomer, "customerId")
	}

	out := models.Booking{
		ID:          d.ID,
		CustomerID:  customerID,
		BookingDate: strings.TrimSpace(d.BookingDate),
		Status:      d.Status,
		RoomType:    d.RoomType,
		Meals:       d.Meals,
		WithoutBed:  d.WithoutBed,
	}
	if out.Status == "" {
		out.Status = models.StatusPending
	}
	if out.BookingDate != "" {
		if _, err := parseDate("bookingDate", out.BookingDate); err != nil {
			return models.Booking{}, err
		}
	}

	// ticket-only vs package
	if d.IsTicketOnly {
		if d.TicketCostPrice <= 0 {
			return models.Booking{}, fail(InvalidTicketFinancials, "ticketCostPrice")
		}
		if d.TicketTotalPaid <= 0 {
			return models.Booking{}, fail(InvalidTicketFinancials, "ticketTotalPaid")
		}
		out.IsTicketOnly = true
		out.TicketCostPrice = d.TicketCostPrice
		out.TicketTotalPaid = d.TicketTotalPaid
		out.PackageID = ""
		out.RoomType = ""
		out.Meals = ""
		out.WithoutBed = false
		out.TotalPaid = 0
	} else {
		packageID := strings.TrimSpace(d.PackageID)
		if packageID == "" {
			return models.Booking{}, fail(MissingPackage, "packageId")
		}
		if _, ok := ctx.pkg(packageID); !ok {
			return models.Booking{}, fail(MissingPackage, "packageId")
		}
		out.PackageID = packageID
		out.TotalPaid = d.TotalPaid
	}

	// children under the limit never get a bed, whatever the caller sent
	if !out.IsTicketOnly && customer.Age < ChildAgeLimit {
		out.WithoutBed = true
	}

	// room and meals
	if out.WithoutBed || out.IsTicketOnly {
		out.RoomType = ""
		out.Meals = ""
	} else {
		switch {
		case out.RoomType == "" && out.Meals == "":
			return models.Booking{}, fail(IncompleteRoomInfo, "roomType")
		case out.RoomType == "":
			out.RoomType = models.RoomDouble
		case out.Meals == "":
			out.Meals = models.MealBreakfast
		}
	}

	// flight details
	required := out.IsTicketOnly || (out.Status == models.StatusTicketed && d.FlightDetails != nil)
	var flight *models.FlightDetails
	if d.FlightDetails != nil {
		f := trimFlight(*d.FlightDetails)
		if f.Complete() {
			flight = &f
		}
	}
	if required && flight == nil {
		return models.Booking{}, fail(IncompleteFlightDetails, missingFlightField(d.FlightDetails))
	}

	// passport guard against the entered departure date
	if d.FlightDetails != nil && !blank(d.FlightDetails.DepartureDate) && !blank(customer.PassportExpiry) {
		departure, err := parseDate("flightDetails.departureDate", d.FlightDetails.DepartureDate)
		if err != nil {
			return models.Booking{}, err
		}
		if err := guardPassport(customer.PassportExpiry, departure, PassportExpiringTooSoon); err != nil {
			return models.Booking{}, err
		}
	}
	if flight != nil {
		if _, err := parseDate("flightDetails.returnDate", flight.ReturnDate); err != nil {
			return models.Booking{}, err
		}
	}
	out.FlightDetails = flight

	// a fully ticketed sale is always Ticketed
	if out.IsTicketOnly && flight != nil {
		out.Status = models.StatusTicketed
	}

	return out, nil
}

func checkEnums(d BookingDraft) error {
	if d.Status != "" && !d.Status.Valid() {
		return malformed("status", "unknown booking status")
	}
	if d.RoomType != "" && !d.RoomType.Valid() {
		return malformed("roomType", "unknown room type")
	}
	if d.Meals != "" && !d.Meals.Valid() {
		return malformed("meals", "unknown meal plan")
	}
	return nil
}

func trimFlight(f models.FlightDetails) models.FlightDetails {
	return models.FlightDetails{
		Airline:       strings.TrimSpace(f.Airline),
		FlightNumber:  strings.TrimSpace(f.FlightNumber),
		DepartureDate: strings.TrimSpace(f.DepartureDate),
		ReturnDate:    strings.TrimSpace(f.ReturnDate),
	}
}

func missingFlightField(f *models.FlightDetails) string {
	if f == nil {
		return "flightDetails"
	}
	switch {
	case blank(f.Airline):
		return "flightDetails.airline"
	case blank(f.FlightNumber):
		return "flightDetails.flightNumber"
	case blank(f.DepartureDate):
		return "flightDetails.departureDate"
	default:
		return "flightDetails.returnDate"
	}
}
