package handlers

import (
	"log"
	"tienda/internal/services"

	"github.com/gofiber/fiber/v2"
)

// PlacesHandler handles HTTP requests for address autocompletion.
type PlacesHandler struct {
	service *services.PlacesService
}

// NewPlacesHandler creates a new PlacesHandler.
func NewPlacesHandler(service *services.PlacesService) *PlacesHandler {
	return &PlacesHandler{
		service: service,
	}
}

// RegisterRoutes registers the places routes with the Fiber app.
func (h *PlacesHandler) RegisterRoutes(router fiber.Router) {
	placesRoutes := router.Group("/places")
	placesRoutes.Get("/autocomplete", h.HandleAutocomplete)
	placesRoutes.Get("/:id/address", h.HandleResolveAddress)
}

// HandleAutocomplete returns address suggestions for a partial input. An
// unavailable places API yields an empty list, never an error: the form
// works without suggestions.
func (h *PlacesHandler) HandleAutocomplete(c *fiber.Ctx) error {
	input := c.Query("input")
	if input == "" {
		return c.JSON([]services.Prediction{})
	}

	predictions, err := h.service.Autocomplete(input)
	if err != nil {
		log.Printf("Error fetching autocomplete predictions: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not fetch suggestions",
			"error":   err.Error(),
		})
	}
	return c.JSON(predictions)
}

// HandleResolveAddress resolves a selected place into its street, city and
// postal code.
func (h *PlacesHandler) HandleResolveAddress(c *fiber.Ctx) error {
	placeID := c.Params("id")

	address, err := h.service.ResolveAddress(placeID)
	if err != nil {
		log.Printf("Error resolving address for place %s: %v", placeID, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not resolve address",
			"error":   err.Error(),
		})
	}
	return c.JSON(address)
}
