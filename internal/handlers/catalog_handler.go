package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"storefront/internal/repositories"
	"storefront/internal/services"
)

// CatalogHandler handles HTTP requests for products and categories.
type CatalogHandler struct {
	service *services.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/featured", h.HandleGetFeatured)
	productRoutes.Get("/:id", h.HandleGetProductByID)

	router.Get("/categories", h.HandleGetCategories)
	router.Get("/search", h.HandleSearch)
}

// HandleGetProducts lists products, optionally filtered by ?category=.
func (h *CatalogHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.ListByCategory(c.UserContext(), c.Query("category"))
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetFeatured lists the featured products.
func (h *CatalogHandler) HandleGetFeatured(c *fiber.Ctx) error {
	products, err := h.service.Featured(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list featured products", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *CatalogHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	product, err := h.service.GetByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return errorResponse(c, fiber.StatusNotFound, "Product not found")
		}
		h.logger.Error("failed to get product", zap.Int64("id", id), zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleGetCategories lists categories, starting with the "all" sentinel.
func (h *CatalogHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Could not retrieve categories")
	}
	return c.JSON(categories)
}

// HandleSearch searches products by ?q=.
func (h *CatalogHandler) HandleSearch(c *fiber.Ctx) error {
	products, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		h.logger.Error("failed to search products", zap.String("query", c.Query("q")), zap.Error(err))
		return errorResponse(c, fiber.StatusInternalServerError, "Could not search products")
	}
	return c.JSON(products)
}
