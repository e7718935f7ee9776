package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/checkout"
	"storefront/internal/models"
	"storefront/internal/services"
)

// CheckoutHandler handles HTTP requests for checkout.
type CheckoutHandler struct {
	service *services.CheckoutService
	logger  *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(service *services.CheckoutService, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the checkout routes with the Fiber app.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	checkoutRoutes := router.Group("/checkout")
	checkoutRoutes.Post("/", h.HandleCheckout)
	checkoutRoutes.Get("/status", h.HandleStatus)
}

// HandleCheckout validates the payment form and places the order.
func (h *CheckoutHandler) HandleCheckout(c *fiber.Ctx) error {
	var form models.PaymentForm
	if err := c.BodyParser(&form); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	receipt, err := h.service.Checkout(c.UserContext(), form)
	if err != nil {
		var validationErr *checkout.ValidationError
		var gatewayErr *services.GatewayError
		switch {
		case errors.As(err, &validationErr):
			body := fiber.Map{"message": validationErr.Reason}
			if len(validationErr.Fields) > 0 {
				body["fields"] = validationErr.Fields
			}
			return c.Status(fiber.StatusBadRequest).JSON(body)
		case errors.As(err, &gatewayErr):
			return errorResponse(c, fiber.StatusBadGateway, gatewayErr.Error())
		case errors.Is(err, services.ErrCheckoutInProgress):
			return errorResponse(c, fiber.StatusConflict, "Checkout already in progress")
		case errors.Is(err, services.ErrEmptyCart):
			return errorResponse(c, fiber.StatusBadRequest, "Your cart is empty")
		default:
			h.logger.Error("checkout failed", zap.Error(err))
			return errorResponse(c, fiber.StatusInternalServerError, "Could not complete checkout")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(receipt)
}

// HandleStatus reports the checkout phase and the last error message.
func (h *CheckoutHandler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"phase": h.service.Phase(),
		"error": h.service.LastError(),
	})
}
