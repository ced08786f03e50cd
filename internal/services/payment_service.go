package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"
)

// PaymentService records instalments against bookings.
type PaymentService struct {
	Store     *store.Store
	Clock     Clock
	RequestID string
}

type PaymentInput struct {
	BookingID   string               `json:"bookingId" binding:"required"`
	Amount      int64                `json:"amount"`
	PaymentDate string               `json:"paymentDate"`
	Method      models.PaymentMethod `json:"method"`
}

type PaymentFilter struct {
	BookingID string `form:"bookingId"`
	domain.DateRange
}

// Create validates and stores a new payment against an existing booking.
func (s PaymentService) Create(ctx context.Context, actor domain.Actor, in PaymentInput) (models.Payment, error) {
	now := s.Clock.now()
	in.BookingID = strings.TrimSpace(in.BookingID)
	if in.PaymentDate == "" {
		in.PaymentDate = utils.FormatDate(now)
	}
	switch {
	case in.BookingID == "":
		return models.Payment{}, domain.ValidationError{Field: "bookingId", Msg: "required"}
	case in.Amount <= 0:
		return models.Payment{}, domain.ValidationError{Field: "amount", Msg: "must be positive"}
	case !in.Method.Valid():
		return models.Payment{}, domain.ValidationError{Field: "method", Msg: "unknown payment method"}
	}
	if _, err := utils.ParseDate(in.PaymentDate); err != nil {
		return models.Payment{}, domain.ValidationError{Field: "paymentDate", Msg: "expected YYYY-MM-DD", Err: err}
	}

	p := models.Payment{BookingID: in.BookingID, Amount: in.Amount, PaymentDate: in.PaymentDate, Method: in.Method}
	err := s.Store.Mutate(ctx, func(snap *store.Snapshot) error {
		if store.IndexOf(snap.Bookings, in.BookingID, store.BookingKey) < 0 {
			return notFound("booking", in.BookingID)
		}
		p.ID = newID("PAY", func(id string) bool { return store.IndexOf(snap.Payments, id, store.PaymentKey) >= 0 })
		snap.Payments = append([]models.Payment{p}, snap.Payments...)
		record(snap, now, actor, models.ActionCreated, models.EntityPayment, p.ID,
			fmt.Sprintf("of %s to Booking %s", utils.FormatThousands(p.Amount), p.BookingID))
		return nil
	})
	if err != nil {
		return models.Payment{}, err
	}
	utils.LogEvent(s.RequestID, "payment", "create", "payment_id="+p.ID+" booking_id="+p.BookingID)
	return p, nil
}

func (s PaymentService) Get(id string) (models.Payment, error) {
	p, ok := s.Store.Payment(id)
	if !ok {
		return models.Payment{}, notFound("payment", id)
	}
	return p, nil
}

// List returns payments newest first.
func (s PaymentService) List(f PaymentFilter) []models.Payment {
	all := s.Store.Payments()
	out := make([]models.Payment, 0, len(all))
	for _, p := range all {
		if f.BookingID != "" && p.BookingID != f.BookingID {
			continue
		}
		if !f.DateRange.Contains(p.PaymentDate) {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaymentDate > out[j].PaymentDate })
	return out
}
