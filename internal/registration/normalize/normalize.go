// Package normalize canonicalizes raw form input before validation runs, so
// validation logic never deals with stray characters. Every function here is
// idempotent: normalize(normalize(x)) == normalize(x).
package normalize

import (
	"strings"

	"motoreg/internal/registration/models"
)

// Document strips every non-digit and caps the result at maxLen. A maxLen of
// zero leaves the length uncapped.
func Document(raw string, maxLen int) string {
	return clip(keep(raw, isDigit), maxLen)
}

// Plate strips everything that is not a letter or digit, upper-cases the
// remainder, and caps it at maxLen.
func Plate(raw string, maxLen int) string {
	return clip(strings.ToUpper(keep(raw, isAlnum)), maxLen)
}

// Phone strips non-digits and caps at maxLen.
func Phone(raw string, maxLen int) string {
	return clip(keep(raw, isDigit), maxLen)
}

// Name upper-cases the full value. No character filtering: names keep their
// spaces and accents.
func Name(raw string) string {
	return strings.ToUpper(raw)
}

// Draft applies per-field normalization to a whole draft under the given
// preset. Fields without a rule pass through unchanged.
func Draft(d models.Draft, p models.Preset) models.Draft {
	d.FullName = Name(d.FullName)
	d.Document = Document(d.Document, p.DocumentMaxLength)
	d.Phone = Phone(d.Phone, p.PhoneMaxLength)
	d.Plate = Plate(d.Plate, p.PlateMaxLength)
	return d
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlnum(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func keep(s string, ok func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if ok(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func clip(s string, maxLen int) string {
	if maxLen > 0 && len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}
