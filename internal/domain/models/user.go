package models

// User is an operator account. ID doubles as the login name.
type User struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Role         UserRole `json:"role"`
	PasswordHash string   `json:"passwordHash,omitempty"`

	// LegacyPassword holds a plaintext password from older snapshots; it is
	// hashed and cleared on load.
	LegacyPassword string `json:"password,omitempty"`
}

// Public strips the password hash for API responses.
func (u User) Public() User {
	u.PasswordHash = ""
	u.LegacyPassword = ""
	return u
}

type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	BookingID   string       `json:"bookingId,omitempty"`
	DueDate     string       `json:"dueDate"`
	Priority    TaskPriority `json:"priority"`
	IsCompleted bool         `json:"isCompleted"`
}
