package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/payment"
)

// Phase is a step of the checkout flow.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseValidating Phase = "validating"
	PhaseInvalid    Phase = "invalid"
	PhaseSubmitting Phase = "submitting"
	PhaseSucceeded  Phase = "succeeded"
	PhaseFailed     Phase = "failed"
)

// OrderPublisher announces completed orders.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, event models.OrderPlaced) error
}

// CheckoutService runs the checkout flow: validate the form, submit the
// payment, then clear the cart. Only one attempt may be in flight.
type CheckoutService struct {
	cart      *CartService
	gateway   payment.Gateway
	tokenizer *payment.Tokenizer
	validator *checkout.Validator
	publisher OrderPublisher
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	phase    Phase
	lastErr  string
	inFlight bool
}

// NewCheckoutService creates a new CheckoutService. publisher may be nil.
// A timeout of zero leaves the gateway bounded only by the caller's context.
func NewCheckoutService(
	cartService *CartService,
	gateway payment.Gateway,
	tokenizer *payment.Tokenizer,
	validator *checkout.Validator,
	publisher OrderPublisher,
	timeout time.Duration,
	logger *zap.Logger,
) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		cart:      cartService,
		gateway:   gateway,
		tokenizer: tokenizer,
		validator: validator,
		publisher: publisher,
		timeout:   timeout,
		logger:    logger,
		now:       time.Now,
		phase:     PhaseIdle,
	}
}

// Phase returns the current checkout phase.
func (s *CheckoutService) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the message of the most recent failed attempt, or "".
func (s *CheckoutService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Checkout validates form and pays for the current cart. Validation failures
// return a *checkout.ValidationError and gateway failures a *GatewayError;
// in both cases the cart is left untouched. On success only the charged lines
// leave the cart; items added while the payment was in flight remain.
func (s *CheckoutService) Checkout(ctx context.Context, form models.PaymentForm) (*models.Receipt, error) {
	if !s.begin() {
		return nil, ErrCheckoutInProgress
	}

	state := s.cart.State()
	if state.IsEmpty() {
		s.finish(PhaseIdle, ErrEmptyCart.Error())
		return nil, ErrEmptyCart
	}

	if err := s.validator.ValidateForm(form); err != nil {
		s.setPhase(PhaseInvalid)
		s.finish(PhaseIdle, err.Error())
		return nil, err
	}

	s.setPhase(PhaseSubmitting)
	confirmation, err := s.submit(ctx, form, state)
	if err != nil {
		s.logger.Warn("payment submission failed",
			zap.Error(err),
			zap.String("amount", state.Subtotal.StringFixed(2)),
		)
		s.setPhase(PhaseFailed)
		s.finish(PhaseIdle, MsgPaymentFailed)
		return nil, &GatewayError{Err: err}
	}

	s.cart.RemoveCharged(context.WithoutCancel(ctx), state.Lines)

	receipt := &models.Receipt{
		OrderNumber: newOrderNumber(),
		PaymentID:   confirmation.ID,
		Amount:      confirmation.Amount,
		ItemCount:   state.ItemCount,
		Lines:       state.Lines,
		PlacedAt:    s.now().UTC(),
	}
	s.publish(ctx, receipt)

	s.logger.Info("order placed",
		zap.String("orderNumber", receipt.OrderNumber),
		zap.String("paymentId", receipt.PaymentID),
		zap.String("amount", receipt.Amount.StringFixed(2)),
		zap.Int("itemCount", receipt.ItemCount),
	)
	s.finish(PhaseSucceeded, "")
	return receipt, nil
}

func (s *CheckoutService) submit(ctx context.Context, form models.PaymentForm, state models.CartState) (models.PaymentConfirmation, error) {
	token, err := s.tokenizer.Tokenize(checkout.NormalizeCardNumber(form.CardNumber), form.CardExpiry)
	if err != nil {
		return models.PaymentConfirmation{}, fmt.Errorf("failed to tokenize payment method: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	confirmation, err := s.gateway.Submit(ctx, token, state.Subtotal)
	if err != nil {
		return models.PaymentConfirmation{}, err
	}
	if confirmation.Status != models.PaymentStatusSucceeded {
		return models.PaymentConfirmation{}, fmt.Errorf("%w: status %s", payment.ErrPaymentDeclined, confirmation.Status)
	}
	return confirmation, nil
}

func (s *CheckoutService) publish(ctx context.Context, receipt *models.Receipt) {
	if s.publisher == nil {
		return
	}
	event := models.OrderPlaced{
		EventID:     uuid.NewString(),
		OrderNumber: receipt.OrderNumber,
		PaymentID:   receipt.PaymentID,
		Amount:      receipt.Amount,
		ItemCount:   receipt.ItemCount,
		PlacedAt:    receipt.PlacedAt,
	}
	if err := s.publisher.PublishOrderPlaced(context.WithoutCancel(ctx), event); err != nil {
		s.logger.Warn("failed to publish order placed event",
			zap.Error(err),
			zap.String("orderNumber", event.OrderNumber),
		)
	}
}

func (s *CheckoutService) begin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight {
		return false
	}
	s.inFlight = true
	s.phase = PhaseValidating
	s.lastErr = ""
	return true
}

func (s *CheckoutService) setPhase(phase Phase) {
	s.mu.Lock()
	s.phase = phase
	s.mu.Unlock()
	s.logger.Debug("checkout phase", zap.String("phase", string(phase)))
}

func (s *CheckoutService) finish(phase Phase, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = phase
	s.lastErr = message
	s.inFlight = false
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD-%06d", 100000+rand.Intn(900000))
}
