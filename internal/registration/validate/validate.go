// Package validate implements the ordered form validation gate and the
// calendar age computation. The gate halts at the first failing check and
// surfaces exactly one error per attempt; the ordering is a contract the
// tests pin down.
package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"motoreg/internal/registration/models"
)

// Kind tags the single failure a validation pass can produce, so callers
// assert on category rather than message wording.
type Kind string

const (
	KindNameRequired      Kind = "name_required"
	KindBirthDateRequired Kind = "birth_date_required"
	KindUnderage          Kind = "underage"
	KindDocumentLength    Kind = "document_length"
	KindPhoneLength       Kind = "phone_length"
	KindPhoneLeadingDigit Kind = "phone_leading_digit"
	KindPlateLength       Kind = "plate_length"
	KindPlateFormat       Kind = "plate_format"
)

// Error is the single failure of one validation pass.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func fail(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// AdultAge is the minimum age at submission time.
const AdultAge = 18

// Age computes the whole-year age at now: the year difference, decremented
// by one when now's month/day precedes the birthday within the year.
func Age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}

// IsAdult reports whether the birth date yields an age of at least AdultAge
// at now. Exposed separately so the shell can warn inline the moment the
// birth-date field changes, before any submit.
func IsAdult(birth, now time.Time) bool {
	return Age(birth, now) >= AdultAge
}

// Check runs the ordered validation sequence over a normalized draft and
// returns the first failure, or nil when the draft passes. Order:
// name, birth date present, adult, document length, phone (presets that
// require it), plate length, plate pattern. A later check is never reached
// when an earlier one fails.
func Check(d models.Draft, p models.Preset, now time.Time) *Error {
	if strings.TrimSpace(d.FullName) == "" {
		return fail(KindNameRequired, "EL NOMBRE COMPLETO ES REQUERIDO")
	}

	birth, ok := d.ParsedBirthDate()
	if !ok {
		return fail(KindBirthDateRequired, "LA FECHA DE NACIMIENTO ES REQUERIDA")
	}

	if !IsAdult(birth, now) {
		return fail(KindUnderage, "DEBES SER MAYOR DE 18 AÑOS")
	}

	if !govalidator.IsNumeric(d.Document) || !govalidator.StringLength(d.Document, "6", "10") {
		return fail(KindDocumentLength, "CÉDULA DEBE TENER 6-10 DÍGITOS")
	}

	if p.PhoneRequired {
		if !govalidator.StringLength(d.Phone, "10", "10") {
			return fail(KindPhoneLength, "CELULAR DEBE TENER 10 DÍGITOS (INICIAR CON 3)")
		}
		if !strings.HasPrefix(d.Phone, "3") {
			return fail(KindPhoneLeadingDigit, "CELULAR INVÁLIDO: DEBE INICIAR CON 3 (NÚMERO MÓVIL COLOMBIANO)")
		}
	}

	if len(d.Plate) < p.PlateMinLength || len(d.Plate) > p.PlateMaxRule {
		return fail(KindPlateLength, plateLengthMessage(p))
	}

	if !p.PlatePattern.MatchString(d.Plate) {
		return fail(KindPlateFormat, "FORMATO PLACA: 3 LETRAS + 2 NÚMEROS (EJ: ABC12)")
	}

	return nil
}

func plateLengthMessage(p models.Preset) string {
	if p.PlateMinLength == p.PlateMaxRule {
		return fmt.Sprintf("PLACA DEBE TENER EXACTAMENTE %d CARACTERES", p.PlateMinLength)
	}
	return "PLACA DEBE TENER " + strconv.Itoa(p.PlateMinLength) + "-" + strconv.Itoa(p.PlateMaxRule) + " CARACTERES"
}
