package services

import (
	"context"
	"fmt"
	"sort"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/rules"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

// BookingService runs drafts through the rule engine and keeps the audit trail.
type BookingService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type BookingFilter struct {
	Search      string `form:"search"`
	Status      string `form:"status"`
	PackageType string `form:"packageType"`
	domain.DateRange
}

// BookingView is a booking with its customer/package names and money figures.
type BookingView struct {
	models.Booking
	CustomerName string            `json:"customerName"`
	PackageName  string            `json:"packageName,omitempty"`
	PackageType  string            `json:"packageType,omitempty"`
	Financials   domain.Projection `json:"financials"`
}

// Validate is a dry run of the rule engine; nothing is stored.
func (s BookingService) Validate(d rules.BookingDraft) (models.Booking, error) {
	snap := s.Store.Snapshot()
	return rules.ValidateAndNormalize(d, ruleContext(&snap))
}

// Save creates the booking when draft.ID is empty, otherwise replaces it.
func (s BookingService) Save(ctx context.Context, actor domain.Actor, d rules.BookingDraft) (models.Booking, error) {
	var saved models.Booking
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		action := models.ActionCreated
		if d.ID != "" {
			if store.IndexOf(snap.Bookings, d.ID, store.BookingKey) < 0 {
				return notFound("booking", d.ID)
			}
			action = models.ActionUpdated
		}

		b, err := rules.ValidateAndNormalize(d, ruleContext(snap))
		if err != nil {
			return err
		}
		if b.ID == "" {
			b.ID = newID("B", func(id string) bool { return store.IndexOf(snap.Bookings, id, store.BookingKey) >= 0 })
		}
		if b.BookingDate == "" {
			b.BookingDate = utils.FormatDate(now)
		}

		snap.Bookings = store.Upsert(snap.Bookings, b, store.BookingKey)
		record(snap, now, actor, action, models.EntityBooking, b.ID, fmt.Sprintf("Booking %s for %s", b.ID, customerName(snap, b.CustomerID)))
		saved = b
		return nil
	})
	if err != nil {
		utils.LogEvent(s.RequestID, "booking", "save", "rejected: "+err.Error())
		return models.Booking{}, err
	}
	utils.LogEvent(s.RequestID, "booking", "save", "booking_id="+saved.ID+" status="+string(saved.Status))
	return saved, nil
}

// Delete removes the booking. Its payments stay on file for the ledger.
func (s BookingService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	now := s.Clock.now()
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		i := store.IndexOf(snap.Bookings, id, store.BookingKey)
		if i < 0 {
			return notFound("booking", id)
		}
		details := fmt.Sprintf("Booking %s for %s", id, customerName(snap, snap.Bookings[i].CustomerID))
		snap.Bookings, _ = store.Remove(snap.Bookings, id, store.BookingKey)
		record(snap, now, actor, models.ActionDeleted, models.EntityBooking, id, details)
		return nil
	})
	if err == nil {
		utils.LogEvent(s.RequestID, "booking", "delete", "booking_id="+id)
	}
	return err
}

func (s BookingService) Get(id string) (BookingView, error) {
	snap := s.Store.Snapshot()
	i := store.IndexOf(snap.Bookings, id, store.BookingKey)
	if i < 0 {
		return BookingView{}, notFound("booking", id)
	}
	return bookingView(&snap, snap.Bookings[i]), nil
}

// List filters like the bookings screen: search on id or customer name,
// ticket-only sales pass any package-type filter, booking date bounds inclusive.
// Newest booking date first.
func (s BookingService) List(f BookingFilter) []BookingView {
	snap := s.Store.Snapshot()
	out := make([]BookingView, 0, len(snap.Bookings))
	for _, b := range snap.Bookings {
		v := bookingView(&snap, b)
		if f.Search != "" && !utils.ContainsFold(b.ID, f.Search) && !utils.ContainsFold(v.CustomerName, f.Search) {
			continue
		}
		if f.Status != "" && f.Status != "All" && string(b.Status) != f.Status {
			continue
		}
		if f.PackageType != "" && f.PackageType != "All" && !b.IsTicketOnly && v.PackageType != f.PackageType {
			continue
		}
		if !f.DateRange.Contains(b.BookingDate) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].BookingDate > out[j].BookingDate })
	return out
}

// Financials is the derived money view of one booking.
func (s BookingService) Financials(id string) (domain.Projection, error) {
	snap := s.Store.Snapshot()
	i := store.IndexOf(snap.Bookings, id, store.BookingKey)
	if i < 0 {
		return domain.Projection{}, notFound("booking", id)
	}
	b := snap.Bookings[i]
	return domain.Project(b, packageFor(&snap, b.PackageID), snap.Payments), nil
}

func ruleContext(snap *store.Snapshot) rules.Context {
	return rules.Context{Customers: snap.Customers, Packages: snap.Packages, Bookings: snap.Bookings}
}

func packageFor(snap *store.Snapshot, id string) *models.Package {
	if id == "" {
		return nil
	}
	if i := store.IndexOf(snap.Packages, id, store.PackageKey); i >= 0 {
		p := snap.Packages[i]
		return &p
	}
	return nil
}

func bookingView(snap *store.Snapshot, b models.Booking) BookingView {
	v := BookingView{
		Booking:      b,
		CustomerName: customerName(snap, b.CustomerID),
	}
	pkg := packageFor(snap, b.PackageID)
	if pkg != nil {
		v.PackageName = pkg.Name
		v.PackageType = string(pkg.Type)
	}
	v.Financials = domain.Project(b, pkg, snap.Payments)
	return v
}
