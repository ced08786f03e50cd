package store

import (
	"encoding/json"

	"backoffice/internal/domain/models"
)

// Snapshot is every collection, serialized together as one blob.
type Snapshot struct {
	Customers         []models.Customer         `json:"customers"`
	Packages          []models.Package          `json:"packages"`
	Bookings          []models.Booking          `json:"bookings"`
	Payments          []models.Payment          `json:"payments"`
	Expenses          []models.Expense          `json:"expenses"`
	Tasks             []models.Task             `json:"tasks"`
	ExpenseCategories []models.ExpenseCategory  `json:"expenseCategories"`
	Users             []models.User             `json:"users"`
	ActivityLog       []models.ActivityLogEntry `json:"activityLog"`
}

// decodeSnapshot accepts a blob only if it parses and carries customers and users.
func decodeSnapshot(data []byte) (Snapshot, bool) {
	var head struct {
		Customers json.RawMessage `json:"customers"`
		Users     json.RawMessage `json:"users"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Snapshot{}, false
	}
	if isNullJSON(head.Customers) || isNullJSON(head.Users) {
		return Snapshot{}, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, false
	}
	snap.fillNil()
	return snap, true
}

func isNullJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}

func (s *Snapshot) fillNil() {
	if s.Customers == nil {
		s.Customers = []models.Customer{}
	}
	if s.Packages == nil {
		s.Packages = []models.Package{}
	}
	if s.Bookings == nil {
		s.Bookings = []models.Booking{}
	}
	if s.Payments == nil {
		s.Payments = []models.Payment{}
	}
	if s.Expenses == nil {
		s.Expenses = []models.Expense{}
	}
	if s.Tasks == nil {
		s.Tasks = []models.Task{}
	}
	if s.ExpenseCategories == nil {
		s.ExpenseCategories = []models.ExpenseCategory{}
	}
	if s.Users == nil {
		s.Users = []models.User{}
	}
	if s.ActivityLog == nil {
		s.ActivityLog = []models.ActivityLogEntry{}
	}
}

// Clone deep-copies the snapshot so callers never share slices with the store.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Customers:         make([]models.Customer, len(s.Customers)),
		Packages:          make([]models.Package, len(s.Packages)),
		Bookings:          make([]models.Booking, len(s.Bookings)),
		Payments:          append([]models.Payment{}, s.Payments...),
		Expenses:          append([]models.Expense{}, s.Expenses...),
		Tasks:             append([]models.Task{}, s.Tasks...),
		ExpenseCategories: append([]models.ExpenseCategory{}, s.ExpenseCategories...),
		Users:             append([]models.User{}, s.Users...),
		ActivityLog:       append([]models.ActivityLogEntry{}, s.ActivityLog...),
	}
	for i, c := range s.Customers {
		out.Customers[i] = cloneCustomer(c)
	}
	for i, p := range s.Packages {
		out.Packages[i] = clonePackage(p)
	}
	for i, b := range s.Bookings {
		out.Bookings[i] = cloneBooking(b)
	}
	return out
}

func cloneCustomer(c models.Customer) models.Customer {
	c.Documents = append([]models.DocumentFile{}, c.Documents...)
	return c
}

func clonePackage(p models.Package) models.Package {
	p.Includes = append([]string{}, p.Includes...)
	return p
}

func cloneBooking(b models.Booking) models.Booking {
	if b.FlightDetails != nil {
		fd := *b.FlightDetails
		b.FlightDetails = &fd
	}
	return b
}
