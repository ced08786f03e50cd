package rules

import (
	"errors"
	"fmt"

	"backoffice/internal/domain"
)

// Kind classifies a rejected booking or customer. Display text is left to callers.
type Kind string

const (
	MissingCustomer         Kind = "MissingCustomer"
	MissingPackage          Kind = "MissingPackage"
	InvalidTicketFinancials Kind = "InvalidTicketFinancials"
	IncompleteRoomInfo      Kind = "IncompleteRoomInfo"
	IncompleteFlightDetails Kind = "IncompleteFlightDetails"
	PassportExpiringTooSoon Kind = "PassportExpiringTooSoon"
	PassportSoonToExpire    Kind = "PassportSoonToExpire"
	MissingRequiredField    Kind = "MissingRequiredField"
)

// Error is a structured rule violation. MinExpiry and PassportExpiry are set
// (YYYY-MM-DD) only for the passport kinds.
type Error struct {
	Kind           Kind   `json:"kind"`
	Field          string `json:"field,omitempty"`
	MinExpiry      string `json:"minExpiry,omitempty"`
	PassportExpiry string `json:"passportExpiry,omitempty"`
}

func (e *Error) Error() string {
	if e.Field == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Field)
}

// Unwrap lets callers treat every rule violation as a domain validation error.
func (e *Error) Unwrap() error {
	return domain.ValidationError{Field: e.Field, Msg: string(e.Kind)}
}

// KindOf returns the rule kind carried by err, if any.
func KindOf(err error) (Kind, bool) {
	var re *Error
	if errors.As(err, &re) {
		return re.Kind, true
	}
	return "", false
}

func fail(kind Kind, field string) error {
	return &Error{Kind: kind, Field: field}
}

func malformed(field, msg string) error {
	return domain.ValidationError{Field: field, Msg: msg}
}
