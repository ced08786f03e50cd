package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatEGP renders whole pounds with thousand separators, e.g. "EGP 35,000".
func FormatEGP(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%sEGP %s", sign, FormatThousands(amount))
}

// FormatThousands groups digits with commas.
func FormatThousands(n int64) string {
	if n < 0 {
		return "-" + FormatThousands(-n)
	}
	str := strconv.FormatInt(n, 10)
	var out strings.Builder
	for i, c := range str {
		if i != 0 && (len(str)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	return out.String()
}

// ParseAmount accepts "35000", "35,000" or "EGP 35,000".
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.ToUpper(s), "EGP")
	s = strings.NewReplacer(",", "", " ", "").Replace(s)
	if s == "" {
		return 0, fmt.Errorf("invalid amount")
	}
	return strconv.ParseInt(s, 10, 64)
}
