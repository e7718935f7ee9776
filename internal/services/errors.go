package services

import "errors"

// MsgPaymentFailed is shown to the shopper for any gateway failure.
const MsgPaymentFailed = "Payment processing failed. Please try again."

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// GatewayError reports a failed payment submission. Its message is always
// MsgPaymentFailed; the underlying cause is kept for logs and errors.Is.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return MsgPaymentFailed
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
