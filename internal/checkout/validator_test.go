package checkout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/checkout"
	"storefront/internal/models"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		cardNumber string
		expiry     string
		cvc        string
		wantReason string
	}{
		{
			name:       "valid card: ok",
			cardNumber: "4242424242424242",
			expiry:     "12/25",
			cvc:        "123",
		},
		{
			name:       "fifteen digit card: ok",
			cardNumber: "378282246310005",
			expiry:     "01/30",
			cvc:        "1234",
		},
		{
			name:       "short card number: invalid",
			cardNumber: "123",
			expiry:     "12/25",
			cvc:        "123",
			wantReason: "Invalid card number",
		},
		{
			name:       "missing expiry separator: invalid",
			cardNumber: "4242424242424242",
			expiry:     "1225",
			cvc:        "123",
			wantReason: "Invalid expiry date",
		},
		{
			name:       "short cvc: invalid",
			cardNumber: "4242424242424242",
			expiry:     "12/25",
			cvc:        "1",
			wantReason: "Invalid CVC",
		},
		{
			name:       "first failure wins: card number",
			cardNumber: "",
			expiry:     "",
			cvc:        "",
			wantReason: "Invalid card number",
		},
		{
			name:       "expiry is not parsed: ok",
			cardNumber: "4242424242424242",
			expiry:     "99/00",
			cvc:        "123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkout.Validate(tt.cardNumber, tt.expiry, tt.cvc)
			if tt.wantReason == "" {
				assert.True(t, got.Valid)
				assert.NoError(t, got.Err())
				return
			}
			assert.False(t, got.Valid)
			assert.Equal(t, tt.wantReason, got.Reason)
			assert.EqualError(t, got.Err(), tt.wantReason)
			assert.True(t, checkout.IsValidationError(got.Err()))
		})
	}
}

func TestValidateStrict(t *testing.T) {
	now := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		cardNumber string
		expiry     string
		cvc        string
		wantReason string
	}{
		{
			name:       "future expiry: ok",
			cardNumber: "4242424242424242",
			expiry:     "12/27",
			cvc:        "123",
		},
		{
			name:       "current month: ok",
			cardNumber: "4242424242424242",
			expiry:     "10/26",
			cvc:        "123",
		},
		{
			name:       "last month: invalid",
			cardNumber: "4242424242424242",
			expiry:     "09/26",
			cvc:        "123",
			wantReason: "Invalid expiry date",
		},
		{
			name:       "month out of range: invalid",
			cardNumber: "4242424242424242",
			expiry:     "13/30",
			cvc:        "123",
			wantReason: "Invalid expiry date",
		},
		{
			name:       "non-digit card number: invalid",
			cardNumber: "4242-4242-4242-42",
			expiry:     "12/30",
			cvc:        "123",
			wantReason: "Invalid card number",
		},
		{
			name:       "non-digit cvc: invalid",
			cardNumber: "4242424242424242",
			expiry:     "12/30",
			cvc:        "12a",
			wantReason: "Invalid CVC",
		},
		{
			name:       "shallow rule still applies first: invalid",
			cardNumber: "4242424242424242",
			expiry:     "1230",
			cvc:        "x",
			wantReason: "Invalid expiry date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkout.ValidateStrict(tt.cardNumber, tt.expiry, tt.cvc, now)
			if tt.wantReason == "" {
				assert.True(t, got.Valid, got.Reason)
				return
			}
			assert.False(t, got.Valid)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}

func TestNormalizeCardNumber(t *testing.T) {
	assert.Equal(t, "4242424242424242", checkout.NormalizeCardNumber("4242 4242 4242 4242"))
	assert.Equal(t, "4242", checkout.NormalizeCardNumber(" 42\t42 "))
}

func validForm() models.PaymentForm {
	return models.PaymentForm{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Email:      "ada@example.com",
		Address:    "1 Analytical Way",
		City:       "London",
		State:      "Greater London",
		ZipCode:    "N1 9GU",
		Country:    "United Kingdom",
		CardNumber: "4242 4242 4242 4242",
		CardExpiry: "12/25",
		CardCvc:    "123",
	}
}

func TestRequiredFields(t *testing.T) {
	require.NoError(t, checkout.RequiredFields(validForm()))

	form := validForm()
	form.City = "   "
	form.CardCvc = ""

	err := checkout.RequiredFields(form)
	require.Error(t, err)
	assert.EqualError(t, err, "Please fill out all fields")

	var ve *checkout.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"city", "cardCvc"}, ve.Fields)
}

func TestValidator_ValidateForm(t *testing.T) {
	t.Run("shallow mode accepts grouped card number: ok", func(t *testing.T) {
		v := checkout.NewValidator(false)
		assert.NoError(t, v.ValidateForm(validForm()))
	})

	t.Run("missing field wins over card rules: error", func(t *testing.T) {
		form := validForm()
		form.Email = ""
		form.CardNumber = "1"
		err := checkout.NewValidator(false).ValidateForm(form)
		assert.EqualError(t, err, "Please fill out all fields")
	})

	t.Run("strict mode rejects expired card: error", func(t *testing.T) {
		v := checkout.NewValidator(true)
		v.Now = func() time.Time { return time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) }
		err := v.ValidateForm(validForm())
		assert.EqualError(t, err, "Invalid expiry date")
	})
}
