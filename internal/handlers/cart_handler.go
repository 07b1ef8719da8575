package handlers

import (
	"fmt"
	"log"
	"strings"
	"tienda/internal/models"
	"tienda/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for cart sessions and checkout.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/", h.HandleNewSession)
	cartRoutes.Get("/:id", h.HandleGetSession)
	cartRoutes.Get("/:id/totals", h.HandleGetTotals)
	cartRoutes.Post("/:id/items", h.HandleAddLine)
	cartRoutes.Delete("/:id/items/:variantId", h.HandleRemoveLine)
	cartRoutes.Post("/:id/checkout", h.HandleCheckout)
}

// HandleNewSession starts an empty cart session.
func (h *CartHandler) HandleNewSession(c *fiber.Ctx) error {
	session := h.service.NewSession()
	return c.Status(fiber.StatusCreated).JSON(session)
}

// HandleGetSession returns the current state of a cart session.
func (h *CartHandler) HandleGetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	session, err := h.service.GetSession(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Cart session %s not found", sessionID),
		})
	}
	return c.JSON(session)
}

// HandleGetTotals returns the derived totals of a cart session.
func (h *CartHandler) HandleGetTotals(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	totals, err := h.service.Totals(sessionID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Cart session %s not found", sessionID),
		})
	}
	return c.JSON(totals)
}

// HandleAddLine adds a quantity of a variant to the cart. A request that
// would push the cart past the variant's last-known stock is rejected and
// the cart is left unchanged.
func (h *CartHandler) HandleAddLine(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var line models.CartLine
	if err := c.BodyParser(&line); err != nil {
		log.Printf("Error parsing cart line body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(line); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	session, err := h.service.AddLine(sessionID, line)
	if err != nil {
		log.Printf("Error adding line to cart %s: %v", sessionID, err)
		if strings.Contains(err.Error(), "insufficient stock") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Requested quantity exceeds available stock",
				"error":   err.Error(),
			})
		}
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Cart session %s not found", sessionID),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not update cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(session)
}

// HandleRemoveLine removes a variant from the cart.
func (h *CartHandler) HandleRemoveLine(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	variantID := c.Params("variantId")

	session, err := h.service.RemoveLine(sessionID, variantID)
	if err != nil {
		log.Printf("Error removing line from cart %s: %v", sessionID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Could not remove item from cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(session)
}

// CheckoutRequest is the contact and address form confirmed at checkout.
// The line items come from the cart session, not from this body.
type CheckoutRequest struct {
	FirstName  string `json:"first_name" validate:"required"`
	LastName   string `json:"last_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,min=6"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code" validate:"required"`
}

// HandleCheckout confirms the cart and submits the order to the commerce
// backend. Backend validation failures come back as a structured result
// with HTTP 422; only transport failures are 502.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing checkout body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	form := models.OrderInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
	}

	result, err := h.service.Checkout(sessionID, form)
	if err != nil {
		log.Printf("Error during checkout for cart %s: %v", sessionID, err)
		if strings.Contains(err.Error(), "not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": fmt.Sprintf("Cart session %s not found", sessionID),
			})
		}
		if strings.Contains(err.Error(), "already") || strings.Contains(err.Error(), "empty") {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Checkout rejected",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": "Could not submit order",
			"error":   err.Error(),
		})
	}

	if !result.Success {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(result)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}
