package models

// BookingStatus follows the loose lifecycle
// Pending -> Deposited -> Confirmed -> Visa Processed -> Ticketed -> Departed -> Completed,
// with Cancelled as a terminal state reachable from anywhere.
type BookingStatus string

const (
	StatusPending       BookingStatus = "Pending"
	StatusDeposited     BookingStatus = "Deposited"
	StatusConfirmed     BookingStatus = "Confirmed"
	StatusVisaProcessed BookingStatus = "Visa Processed"
	StatusTicketed      BookingStatus = "Ticketed"
	StatusDeparted      BookingStatus = "Departed"
	StatusCompleted     BookingStatus = "Completed"
	StatusCancelled     BookingStatus = "Cancelled"
)

// BookingStatuses lists every status in lifecycle order.
var BookingStatuses = []BookingStatus{
	StatusPending,
	StatusDeposited,
	StatusConfirmed,
	StatusVisaProcessed,
	StatusTicketed,
	StatusDeparted,
	StatusCompleted,
	StatusCancelled,
}

var bookingStatusLabels = map[BookingStatus]string{
	StatusPending:       "Pending",
	StatusDeposited:     "Deposited",
	StatusConfirmed:     "Confirmed",
	StatusVisaProcessed: "Visa Processed",
	StatusTicketed:      "Ticketed",
	StatusDeparted:      "Departed",
	StatusCompleted:     "Completed",
	StatusCancelled:     "Cancelled",
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatusLabels[s]
	return ok
}

func (s BookingStatus) Label() string { return labelOr(bookingStatusLabels, s) }

// Active reports whether the booking still needs operator attention.
func (s BookingStatus) Active() bool {
	return s != StatusCompleted && s != StatusCancelled
}

type RoomType string

const (
	RoomDouble    RoomType = "Double"
	RoomTriple    RoomType = "Triple"
	RoomQuad      RoomType = "Quad"
	RoomQuintuple RoomType = "Quintuple"
)

var RoomTypes = []RoomType{RoomDouble, RoomTriple, RoomQuad, RoomQuintuple}

var roomTypeLabels = map[RoomType]string{
	RoomDouble:    "Double",
	RoomTriple:    "Triple",
	RoomQuad:      "Quad",
	RoomQuintuple: "Quintuple",
}

var roomCapacity = map[RoomType]int{
	RoomDouble:    2,
	RoomTriple:    3,
	RoomQuad:      4,
	RoomQuintuple: 5,
}

func (r RoomType) Valid() bool {
	_, ok := roomTypeLabels[r]
	return ok
}

func (r RoomType) Label() string { return labelOr(roomTypeLabels, r) }

// Capacity returns beds per room; unknown types count as a double room.
func (r RoomType) Capacity() int {
	if c, ok := roomCapacity[r]; ok {
		return c
	}
	return 2
}

type MealType string

const (
	MealOnlyBed   MealType = "Only Bed"
	MealBreakfast MealType = "Breakfast"
	MealHalfBoard MealType = "Half Board"
	MealFullBoard MealType = "Full Board"
)

var mealLabels = map[MealType]string{
	MealOnlyBed:   "Only Bed",
	MealBreakfast: "Breakfast",
	MealHalfBoard: "Half Board",
	MealFullBoard: "Full Board",
}

func (m MealType) Valid() bool {
	_, ok := mealLabels[m]
	return ok
}

func (m MealType) Label() string { return labelOr(mealLabels, m) }

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentCreditCard   PaymentMethod = "Credit Card"
)

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentCash:         "Cash",
	PaymentBankTransfer: "Bank Transfer",
	PaymentCreditCard:   "Credit Card",
}

func (m PaymentMethod) Valid() bool {
	_, ok := paymentMethodLabels[m]
	return ok
}

func (m PaymentMethod) Label() string { return labelOr(paymentMethodLabels, m) }

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

type PackageType string

const (
	PackageHajj  PackageType = "Hajj"
	PackageUmrah PackageType = "Umrah"
)

func (p PackageType) Valid() bool { return p == PackageHajj || p == PackageUmrah }

type UserRole string

const (
	RoleAdmin   UserRole = "Admin"
	RoleManager UserRole = "Manager"
	RoleStaff   UserRole = "Staff"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleStaff
}

type TaskPriority string

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

var priorityRank = map[TaskPriority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

func (p TaskPriority) Valid() bool {
	_, ok := priorityRank[p]
	return ok
}

// Rank orders priorities High < Medium < Low.
func (p TaskPriority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

type DocumentType string

const (
	DocumentPassport DocumentType = "passport"
	DocumentPhoto    DocumentType = "photo"
	DocumentOther    DocumentType = "other"
)

func (d DocumentType) Valid() bool {
	return d == DocumentPassport || d == DocumentPhoto || d == DocumentOther
}

func labelOr[K ~string](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}
