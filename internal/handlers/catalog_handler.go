package handlers

import (
	"log"
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	service *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		service: service,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/catalog", h.HandleGetCatalog)
}

// HandleGetCatalog fetches the active products from the commerce backend.
// The catalog is fetched fresh on every request; a backend failure means
// no catalog is rendered, surfaced here rather than hidden.
func (h *CatalogHandler) HandleGetCatalog(c *fiber.Ctx) error {
	products, err := h.service.FetchCatalog()
	if err != nil {
		log.Printf("Error fetching catalog: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not retrieve catalog",
			"error":   err.Error(),
		})
	}
	return c.JSON(products)
}
