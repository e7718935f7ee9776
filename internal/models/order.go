package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receipt describes a completed checkout.
type Receipt struct {
	OrderNumber string          `json:"orderNumber"`
	PaymentID   string          `json:"paymentId"`
	Amount      decimal.Decimal `json:"amount"`
	ItemCount   int             `json:"itemCount"`
	Lines       []CartLine      `json:"lines"`
	PlacedAt    time.Time       `json:"placedAt"`
}

// OrderPlaced is the event published after a successful checkout.
type OrderPlaced struct {
	EventID     string          `json:"eventId"`
	OrderNumber string          `json:"orderNumber"`
	PaymentID   string          `json:"paymentId"`
	Amount      decimal.Decimal `json:"amount"`
	ItemCount   int             `json:"itemCount"`
	PlacedAt    time.Time       `json:"placedAt"`
}
