package services

import (
	"context"
	"strings"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingSaveCreatesAndLogs(t *testing.T) {
	st, blob := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	b, err := svc.Save(context.Background(), staffActor, rules.BookingDraft{
		CustomerID: "C002",
		PackageID:  "P01",
		RoomType:   models.RoomTriple,
		Meals:      models.MealHalfBoard,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(b.ID, "B"))
	assert.Equal(t, models.StatusPending, b.Status)
	assert.Equal(t, "2024-05-01", b.BookingDate)
	assert.Equal(t, 1, blob.Saves())

	log := st.Activity()
	require.NotEmpty(t, log)
	assert.Equal(t, models.ActionCreated, log[0].Action)
	assert.Equal(t, models.EntityBooking, log[0].Entity)
	assert.Equal(t, "Ali Hassan", log[0].User)
	assert.Equal(t, "Booking "+b.ID+" for Fatima Ali", log[0].Details)
}

func TestBookingSaveRejectsWithoutSideEffects(t *testing.T) {
	st, blob := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	_, err := svc.Save(context.Background(), adminActor, rules.BookingDraft{
		CustomerID:      "C003",
		IsTicketOnly:    true,
		TicketCostPrice: 0,
		TicketTotalPaid: 8000,
	})
	kind, ok := rules.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, rules.InvalidTicketFinancials, kind)
	assert.True(t, domain.IsValidation(err))

	assert.Len(t, st.Bookings(), 7)
	assert.Empty(t, st.Activity())
	assert.Equal(t, 0, blob.Saves())
}

func TestBookingSaveAppliesPassportGuard(t *testing.T) {
	st, _ := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	// C003's passport runs out 2027-01-30; a 2026-09-01 departure needs 2027-03-01.
	_, err := svc.Save(context.Background(), adminActor, rules.BookingDraft{
		CustomerID:      "C003",
		IsTicketOnly:    true,
		TicketCostPrice: 7000,
		TicketTotalPaid: 7600,
		FlightDetails: &models.FlightDetails{
			Airline: "Saudia", FlightNumber: "SV300", DepartureDate: "2026-09-01", ReturnDate: "2026-09-15",
		},
	})
	var re *rules.Error
	require.ErrorAs(t, err, &re)
	assert.Equal(t, rules.PassportExpiringTooSoon, re.Kind)
	assert.Equal(t, "2027-03-01", re.MinExpiry)
	assert.Equal(t, "2027-01-30", re.PassportExpiry)
}

func TestBookingUpdateKeepsIDAndLogsUpdated(t *testing.T) {
	st, _ := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	updated, err := svc.Save(context.Background(), adminActor, rules.BookingDraft{
		ID:          "B005",
		CustomerID:  "C002",
		PackageID:   "P01",
		BookingDate: "2024-02-01",
		Status:      models.StatusDeposited,
		RoomType:    models.RoomQuintuple,
		Meals:       models.MealBreakfast,
	})
	require.NoError(t, err)
	assert.Equal(t, "B005", updated.ID)

	got, err := svc.Get("B005")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeposited, got.Status)
	assert.Equal(t, models.ActionUpdated, st.Activity()[0].Action)
	assert.Len(t, st.Bookings(), 7)
}

func TestBookingUpdateUnknownID(t *testing.T) {
	st, _ := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}
	_, err := svc.Save(context.Background(), adminActor, rules.BookingDraft{ID: "B999", CustomerID: "C001", PackageID: "P01", RoomType: models.RoomDouble})
	assert.True(t, domain.IsNotFound(err))
}

func TestBookingValidateIsDryRun(t *testing.T) {
	st, blob := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	b, err := svc.Validate(rules.BookingDraft{CustomerID: "C004", PackageID: "P02", RoomType: models.RoomDouble, Meals: models.MealBreakfast})
	require.NoError(t, err)
	assert.True(t, b.WithoutBed, "a five-year-old never gets a bed")
	assert.Empty(t, b.RoomType)
	assert.Equal(t, 0, blob.Saves())
	assert.Len(t, st.Bookings(), 7)
}

func TestBookingDelete(t *testing.T) {
	st, _ := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	require.NoError(t, svc.Delete(context.Background(), adminActor, "B003"))
	_, err := svc.Get("B003")
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, "Booking B003 for Youssef Ibrahim", st.Activity()[0].Details)
	assert.Len(t, st.Payments(), 6, "payments are not cascaded")

	assert.True(t, domain.IsNotFound(svc.Delete(context.Background(), adminActor, "B003")))
}

func TestBookingListFilters(t *testing.T) {
	st, _ := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	ids := func(views []BookingView) []string {
		out := make([]string, len(views))
		for i, v := range views {
			out[i] = v.ID
		}
		return out
	}

	all := svc.List(BookingFilter{})
	require.Len(t, all, 7)
	assert.Equal(t, "B007", all[0].ID, "newest booking date first")

	hajj := ids(svc.List(BookingFilter{PackageType: "Hajj"}))
	assert.ElementsMatch(t, []string{"B004", "B007"}, hajj, "ticket-only passes any package type")

	assert.ElementsMatch(t, []string{"B002", "B005"}, ids(svc.List(BookingFilter{Search: "fatima"})))
	assert.ElementsMatch(t, []string{"B002", "B007"}, ids(svc.List(BookingFilter{Status: "Ticketed"})))
	assert.ElementsMatch(t, []string{"B004", "B005", "B006"},
		ids(svc.List(BookingFilter{DateRange: domain.DateRange{Start: "2024-01-01", End: "2024-03-31"}})))
}

func TestBookingFinancials(t *testing.T) {
	st, _ := newTestStore(t)
	svc := BookingService{Store: st, Clock: fixedClock()}

	p, err := svc.Financials("B004")
	require.NoError(t, err)
	assert.Equal(t, int64(250000), p.TotalPrice)
	assert.Equal(t, int64(100000), p.TotalPaid)
	assert.Equal(t, int64(150000), p.RemainingBalance)
	assert.Nil(t, p.TicketProfit)

	p, err = svc.Financials("B007")
	require.NoError(t, err)
	assert.Equal(t, int64(8200), p.TotalPrice)
	assert.Equal(t, int64(0), p.RemainingBalance)
	require.NotNil(t, p.TicketProfit)
	assert.Equal(t, int64(700), *p.TicketProfit)
}
