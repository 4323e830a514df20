// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const (
	defaultRegion = "US"
	minDigits     = 10
)

// LooksValid reports whether input has the loose shape of a phone number:
// an optional leading '+', then digits mixed with spaces, '-', '.', '(' or ')',
// with at least ten digits in total.
func LooksValid(input string) bool {
	trimmed := strings.TrimSpace(input)
	trimmed = strings.TrimPrefix(trimmed, "+")
	if trimmed == "" {
		return false
	}

	digits := 0
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == ' ', r == '-', r == '.', r == '(', r == ')':
		default:
			return false
		}
	}
	return digits >= minDigits
}

// NormalizeE164 formats a phone number to E.164. When the number cannot be
// parsed as a valid number it falls back to its digits, keeping a leading '+'.
// Two spellings of the same number normalize to the same string.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err == nil && phonenumbers.IsValidNumber(number) {
		return phonenumbers.Format(number, phonenumbers.E164)
	}

	return digitsOnly(trimmed)
}

func digitsOnly(input string) string {
	var b strings.Builder
	if strings.HasPrefix(input, "+") {
		b.WriteByte('+')
	}
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
