package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"storefront/internal/models"
)

var formValidator = models.NewValidator()

// RequiredFields checks that every shipping and payment field is filled in.
// Whitespace-only values count as empty.
func RequiredFields(form models.PaymentForm) error {
	trimmed := models.PaymentForm{
		FirstName:  strings.TrimSpace(form.FirstName),
		LastName:   strings.TrimSpace(form.LastName),
		Email:      strings.TrimSpace(form.Email),
		Address:    strings.TrimSpace(form.Address),
		City:       strings.TrimSpace(form.City),
		State:      strings.TrimSpace(form.State),
		ZipCode:    strings.TrimSpace(form.ZipCode),
		Country:    strings.TrimSpace(form.Country),
		CardNumber: strings.TrimSpace(form.CardNumber),
		CardExpiry: strings.TrimSpace(form.CardExpiry),
		CardCvc:    strings.TrimSpace(form.CardCvc),
	}

	err := formValidator.Struct(trimmed)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validate payment form: %w", err)
	}

	fields := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, e.Field())
	}
	return &ValidationError{Reason: ReasonMissingFields, Fields: fields}
}
