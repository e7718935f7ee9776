package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentForm is the checkout form as submitted by the shopper.
// It is never persisted.
type PaymentForm struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Address   string `json:"address" validate:"required"`
	City      string `json:"city" validate:"required"`
	State     string `json:"state" validate:"required"`
	ZipCode   string `json:"zipCode" validate:"required"`
	Country   string `json:"country" validate:"required"`

	CardNumber string `json:"cardNumber" validate:"required"`
	CardExpiry string `json:"cardExpiry" validate:"required"` // MM/YY
	CardCvc    string `json:"cardCvc" validate:"required"`
}

// PaymentStatus is the state reported by the payment gateway.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "succeeded"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentConfirmation is returned by the gateway for an accepted payment.
type PaymentConfirmation struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Status      PaymentStatus   `json:"status"`
	ProcessedAt time.Time       `json:"processedAt"`
}
