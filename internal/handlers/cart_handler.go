package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/repositories"
	"storefront/internal/services"
)

type addItemRequest struct {
	ProductID int64 `json:"productId" validate:"required,gt=0"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartHandler handles HTTP requests for the cart.
type CartHandler struct {
	service *services.CartService
	logger  *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/items/:id", h.HandleRemoveItem)
	cartRoutes.Post("/toggle", h.HandleTogglePanel)
}

// HandleGetCart returns the current cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	return c.JSON(h.service.State())
}

// HandleAddItem adds one unit of a catalog product.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := parseBody(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	state, err := h.service.AddProduct(c.UserContext(), req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Product not found")
		}
		h.logger.Error("failed to add product to cart", zap.Int64("productId", req.ProductID), zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Could not add product to cart")
	}
	return c.Status(fiber.StatusOK).JSON(state)
}

// HandleUpdateQuantity sets a line's quantity; zero or less removes it.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	id, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	var req updateQuantityRequest
	if err := parseBody(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(h.service.UpdateQuantity(c.UserContext(), id, *req.Quantity))
}

// HandleRemoveItem removes a line. Removing an absent product is not an error.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	id, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(h.service.Remove(c.UserContext(), id))
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	return c.JSON(h.service.Clear(c.UserContext()))
}

// HandleTogglePanel flips the cart panel visibility.
func (h *CartHandler) HandleTogglePanel(c *fiber.Ctx) error {
	return c.JSON(h.service.TogglePanel(c.UserContext()))
}
