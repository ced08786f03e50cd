package domain

import "backoffice/internal/domain/models"

// Actor is the authenticated operator performing a mutation.
type Actor struct {
	UserID string          `json:"userId"`
	Name   string          `json:"name"`
	Role   models.UserRole `json:"role"`
}

// Is reports whether the actor holds one of the given roles.
func (a Actor) Is(roles ...models.UserRole) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// DateRange bounds a YYYY-MM-DD field; empty ends are open.
type DateRange struct {
	Start string `form:"startDate" json:"startDate"`
	End   string `form:"endDate" json:"endDate"`
}

// Contains compares ISO dates lexically, which matches calendar order.
func (r DateRange) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}
