// Package checkout validates payment-form data before it is submitted to the
// payment gateway.
package checkout

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"storefront/internal/models"
)

const (
	MinCardNumberLength = 15
	MinCVCLength        = 3
)

const (
	ReasonInvalidCardNumber = "Invalid card number"
	ReasonInvalidExpiry     = "Invalid expiry date"
	ReasonInvalidCVC        = "Invalid CVC"
	ReasonMissingFields     = "Please fill out all fields"
)

// ValidationError is a user-correctable input problem.
type ValidationError struct {
	Reason string
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IsValidationError reports whether err carries a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Result is the outcome of validating a payment method.
type Result struct {
	Valid  bool
	Reason string
}

// Err returns nil for a valid result and a *ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	return &ValidationError{Reason: r.Reason}
}

func valid() Result { return Result{Valid: true} }

func invalid(reason string) Result { return Result{Reason: reason} }

// Validate checks card data in order; the first failing rule wins.
// The expiry check only requires a "/" separator.
func Validate(cardNumber, expiry, cvc string) Result {
	if len(cardNumber) < MinCardNumberLength {
		return invalid(ReasonInvalidCardNumber)
	}
	if !strings.Contains(expiry, "/") {
		return invalid(ReasonInvalidExpiry)
	}
	if len(cvc) < MinCVCLength {
		return invalid(ReasonInvalidCVC)
	}
	return valid()
}

// ValidateStrict applies Validate and then also requires digit-only card and
// CVC values and an MM/YY expiry that is a real month not before now.
func ValidateStrict(cardNumber, expiry, cvc string, now time.Time) Result {
	if r := Validate(cardNumber, expiry, cvc); !r.Valid {
		return r
	}
	if !digitsOnly(cardNumber) {
		return invalid(ReasonInvalidCardNumber)
	}
	if !expiryValid(expiry, now) {
		return invalid(ReasonInvalidExpiry)
	}
	if !digitsOnly(cvc) {
		return invalid(ReasonInvalidCVC)
	}
	return valid()
}

func expiryValid(expiry string, now time.Time) bool {
	mm, yy, ok := strings.Cut(expiry, "/")
	if !ok || len(mm) != 2 || len(yy) != 2 || !digitsOnly(mm) || !digitsOnly(yy) {
		return false
	}
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	if month < 1 || month > 12 {
		return false
	}
	year += 2000

	// A card is valid through the last day of its expiry month.
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// NormalizeCardNumber removes the whitespace used to group card digits.
func NormalizeCardNumber(cardNumber string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, cardNumber)
}

// Validator runs the full form check: required fields first, then the card
// rules in shallow or strict mode.
type Validator struct {
	Strict bool
	Now    func() time.Time
}

// NewValidator returns a Validator; strict enables ValidateStrict.
func NewValidator(strict bool) *Validator {
	return &Validator{Strict: strict, Now: time.Now}
}

// ValidateForm returns nil when the form may be submitted.
func (v *Validator) ValidateForm(form models.PaymentForm) error {
	if err := RequiredFields(form); err != nil {
		return err
	}
	card := NormalizeCardNumber(form.CardNumber)
	if v.Strict {
		now := time.Now
		if v.Now != nil {
			now = v.Now
		}
		return ValidateStrict(card, form.CardExpiry, form.CardCvc, now()).Err()
	}
	return Validate(card, form.CardExpiry, form.CardCvc).Err()
}
