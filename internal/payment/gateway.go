// Package payment is the seam between checkout and a payment processor.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

var (
	ErrPaymentDeclined = errors.New("payment declined")
	ErrInvalidAmount   = errors.New("amount must not be negative")
)

// Gateway submits a payment for amount using an opaque payment-method token.
// Implementations must return promptly once ctx is done.
type Gateway interface {
	Submit(ctx context.Context, paymentMethodToken string, amount decimal.Decimal) (models.PaymentConfirmation, error)
}

// GatewayFunc adapts a function to the Gateway interface.
type GatewayFunc func(ctx context.Context, paymentMethodToken string, amount decimal.Decimal) (models.PaymentConfirmation, error)

func (f GatewayFunc) Submit(ctx context.Context, paymentMethodToken string, amount decimal.Decimal) (models.PaymentConfirmation, error) {
	return f(ctx, paymentMethodToken, amount)
}

// MockGateway accepts every payment after Delay. It never inspects the token.
type MockGateway struct {
	Delay time.Duration
	now   func() time.Time
}

// NewMockGateway creates a MockGateway with the given simulated latency.
func NewMockGateway(delay time.Duration) *MockGateway {
	return &MockGateway{Delay: delay, now: time.Now}
}

func (g *MockGateway) Submit(ctx context.Context, _ string, amount decimal.Decimal) (models.PaymentConfirmation, error) {
	if amount.IsNegative() {
		return models.PaymentConfirmation{}, fmt.Errorf("%w: %s", ErrInvalidAmount, amount)
	}

	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return models.PaymentConfirmation{}, fmt.Errorf("payment submission cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return models.PaymentConfirmation{}, fmt.Errorf("payment submission cancelled: %w", err)
	}

	now := time.Now
	if g.now != nil {
		now = g.now
	}
	return models.PaymentConfirmation{
		ID:          newPaymentID(),
		Amount:      amount,
		Status:      models.PaymentStatusSucceeded,
		ProcessedAt: now(),
	}, nil
}

// DecliningGateway rejects every payment. Useful for exercising failure paths.
func DecliningGateway(reason string) Gateway {
	return GatewayFunc(func(ctx context.Context, _ string, _ decimal.Decimal) (models.PaymentConfirmation, error) {
		if err := ctx.Err(); err != nil {
			return models.PaymentConfirmation{}, err
		}
		return models.PaymentConfirmation{}, fmt.Errorf("%w: %s", ErrPaymentDeclined, reason)
	})
}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func newPaymentID() string {
	b := make([]byte, 13)
	for i := range b {
		b[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return "pi_" + string(b)
}
