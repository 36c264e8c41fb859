package spayd

import "strings"

// ElectronicIBAN returns iban without spaces and in upper case, the form
// SPAYD expects in the ACC attribute.
func ElectronicIBAN(iban string) string {
	return strings.ToUpper(strings.Join(strings.Fields(iban), ""))
}

// ValidIBAN reports whether iban (in electronic or print format) has a
// plausible structure and a correct ISO 13616 mod-97 checksum.
func ValidIBAN(iban string) bool {
	s := ElectronicIBAN(iban)
	if len(s) < 15 || len(s) > 34 {
		return false
	}
	for i := 0; i < 2; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	for i := 2; i < 4; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	// Move the country code and check digits to the end, replace letters
	// with two-digit numbers (A=10..Z=35) and reduce mod 97 as we go.
	rearranged := s[4:] + s[:4]
	rem := 0
	for i := 0; i < len(rearranged); i++ {
		c := rearranged[i]
		switch {
		case c >= '0' && c <= '9':
			rem = (rem*10 + int(c-'0')) % 97
		case c >= 'A' && c <= 'Z':
			v := int(c-'A') + 10
			rem = (rem*100 + v) % 97
		default:
			return false
		}
	}
	return rem == 1
}
