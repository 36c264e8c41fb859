// Package spayd encodes Short Payment Descriptors (SPAYD), the text format
// behind Czech and Slovak payment QR codes.
//
// Example output:
//
//	SPD*1.0*ACC:CZ6508000000192000145399*AM:450.00*CC:CZK*MSG:Camp fee*X-VS:2025000001
package spayd

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/GTDGit/spayd_api/internal/symbol"
)

// Version is the SPAYD format version written in the header.
const Version = "1.0"

// Field limits.
const (
	MaxMessageLength   = 60
	MaxRecipientLength = 35
	MaxVSLength        = symbol.MaxVSLength
	MaxSSLength        = symbol.MaxSSLength
	KSLength           = symbol.KSLength
	MaxAmount          = 9999999.99
)

var (
	ErrInvalidIBAN     = errors.New("INVALID_IBAN")
	ErrInvalidAmount   = errors.New("INVALID_AMOUNT")
	ErrInvalidCurrency = errors.New("INVALID_CURRENCY")
	ErrInvalidSymbol   = errors.New("INVALID_SYMBOL")
)

// Payment is the payment description encoded into a SPAYD string.
// Symbol fields must be digit-only strings; empty means omitted.
type Payment struct {
	IBAN           string
	Amount         float64
	Currency       string
	VariableSymbol string
	SpecificSymbol string
	ConstantSymbol string
	Message        string
	RecipientName  string
	DueDate        time.Time
}

// Encode validates p and returns its SPAYD representation. ACC comes first,
// the remaining attributes follow in alphabetical order.
func Encode(p Payment) (string, error) {
	iban := ElectronicIBAN(p.IBAN)
	if !ValidIBAN(iban) {
		return "", fmt.Errorf("%w: %q", ErrInvalidIBAN, p.IBAN)
	}

	attrs := map[string]string{}

	if p.Amount != 0 {
		if p.Amount < 0 || p.Amount > MaxAmount {
			return "", fmt.Errorf("%w: %.2f", ErrInvalidAmount, p.Amount)
		}
		attrs["AM"] = strconv.FormatFloat(p.Amount, 'f', 2, 64)
	}

	if p.Currency != "" {
		cur := strings.ToUpper(strings.TrimSpace(p.Currency))
		if len(cur) != 3 || !isLetters(cur) {
			return "", fmt.Errorf("%w: %q", ErrInvalidCurrency, p.Currency)
		}
		attrs["CC"] = cur
	}

	if !p.DueDate.IsZero() {
		attrs["DT"] = p.DueDate.Format("20060102")
	}
	if msg := clean(p.Message, MaxMessageLength); msg != "" {
		attrs["MSG"] = msg
	}
	if rn := clean(p.RecipientName, MaxRecipientLength); rn != "" {
		attrs["RN"] = rn
	}

	symbols := []struct {
		key, value string
		min, max   int
	}{
		{"X-VS", p.VariableSymbol, 1, MaxVSLength},
		{"X-SS", p.SpecificSymbol, 1, MaxSSLength},
		{"X-KS", p.ConstantSymbol, KSLength, KSLength},
	}
	for _, s := range symbols {
		if s.value == "" {
			continue
		}
		if !symbol.IsValidNumeric(s.value) || len(s.value) < s.min || len(s.value) > s.max {
			return "", fmt.Errorf("%w: %s %q", ErrInvalidSymbol, s.key, s.value)
		}
		attrs[s.key] = s.value
	}

	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("SPD*")
	b.WriteString(Version)
	b.WriteString("*ACC:")
	b.WriteString(iban)
	for _, k := range keys {
		b.WriteByte('*')
		b.WriteString(k)
		b.WriteByte(':')
		b.WriteString(attrs[k])
	}
	return b.String(), nil
}

// clean escapes the attribute separator and trims the value to max runes.
func clean(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(s)
	if len(r) > max {
		s = strings.TrimSpace(string(r[:max]))
	}
	return strings.ReplaceAll(s, "*", "%2A")
}

func isLetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
