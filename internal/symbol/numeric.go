package symbol

import "strconv"

// ToNumber parses a composed symbol as a base-10 integer. It returns 0 when
// s is not a valid numeric symbol or does not fit in an int64.
func ToNumber(s string) int64 {
	if !IsValidNumeric(s) {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// IsValidNumeric reports whether s is non-empty and contains only ASCII digits.
// SPAYD encoders require symbol fields to pass this check.
func IsValidNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
