package models

// Payment is one instalment against a package booking.
type Payment struct {
	ID          string        `json:"id"`
	BookingID   string        `json:"bookingId"`
	Amount      int64         `json:"amount"`
	PaymentDate string        `json:"paymentDate"`
	Method      PaymentMethod `json:"method"`
}

type Expense struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	ExpenseDate string `json:"expenseDate"`
	VATAmount   int64  `json:"vatAmount,omitempty"`
	PaidTo      string `json:"paidTo,omitempty"`
}

type ExpenseCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
