package rules

import (
	"strings"
	"time"

	"backoffice/internal/utils"
)

// PassportValidityMonths is the minimum validity required past the reference date.
const PassportValidityMonths = 6

// MinPassportExpiry adds six calendar months to reference. Day overflow is
// normalized forward (Aug 31 + 6 months = Mar 3 or Mar 2), never clamped.
func MinPassportExpiry(reference time.Time) time.Time {
	return reference.AddDate(0, PassportValidityMonths, 0)
}

// CheckPassportValidity reports whether expiry is on or after reference + 6 months.
func CheckPassportValidity(expiry, reference time.Time) bool {
	return !expiry.Before(MinPassportExpiry(reference))
}

// guardPassport runs the shared rule and tags failures with kind.
func guardPassport(expiryRaw string, reference time.Time, kind Kind) error {
	expiry, err := parseDate("passportExpiry", expiryRaw)
	if err != nil {
		return err
	}
	if CheckPassportValidity(expiry, reference) {
		return nil
	}
	return &Error{
		Kind:           kind,
		Field:          "passportExpiry",
		MinExpiry:      utils.FormatDate(MinPassportExpiry(reference)),
		PassportExpiry: utils.FormatDate(expiry),
	}
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := utils.ParseDate(raw)
	if err != nil {
		return time.Time{}, malformed(field, "expected date as YYYY-MM-DD")
	}
	return t, nil
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
