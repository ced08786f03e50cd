package models

import "time"

type ActivityAction string

const (
	ActionCreated    ActivityAction = "Created"
	ActionUpdated    ActivityAction = "Updated"
	ActionDeleted    ActivityAction = "Deleted"
	ActionCompleted  ActivityAction = "Completed"
	ActionIncomplete ActivityAction = "Incomplete"
)

type ActivityEntity string

const (
	EntityCustomer        ActivityEntity = "Customer"
	EntityPackage         ActivityEntity = "Package"
	EntityBooking         ActivityEntity = "Booking"
	EntityPayment         ActivityEntity = "Payment"
	EntityExpense         ActivityEntity = "Expense"
	EntityTask            ActivityEntity = "Task"
	EntityUser            ActivityEntity = "User"
	EntityDocument        ActivityEntity = "Document"
	EntityExpenseCategory ActivityEntity = "ExpenseCategory"
)

type ActivityLogEntry struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	User      string         `json:"user"`
	Action    ActivityAction `json:"action"`
	Entity    ActivityEntity `json:"entity"`
	EntityID  string         `json:"entityId"`
	Details   string         `json:"details"`
}
