package handlers

import (
	"fmt"
	"log"
	"tienda/internal/repositories"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler exposes the submission journal to the admin surface.
type AdminHandler struct {
	journal repositories.SubmissionJournal
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(journal repositories.SubmissionJournal) *AdminHandler {
	return &AdminHandler{
		journal: journal,
	}
}

// RegisterRoutes registers the admin routes with the Fiber app. These
// routes are expected to be mounted behind the auth middleware.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Get("/submissions", h.HandleGetSubmissions)
	adminRoutes.Get("/submissions/:id", h.HandleGetSubmissionByID)
}

// HandleGetSubmissions lists all journaled submission attempts.
func (h *AdminHandler) HandleGetSubmissions(c *fiber.Ctx) error {
	records, err := h.journal.GetAll()
	if err != nil {
		log.Printf("Error getting submissions: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve submissions",
			"error":   err.Error(),
		})
	}
	return c.JSON(records)
}

// HandleGetSubmissionByID retrieves a single journaled submission.
func (h *AdminHandler) HandleGetSubmissionByID(c *fiber.Ctx) error {
	submissionID := c.Params("id")
	record, err := h.journal.GetByID(submissionID)
	if err != nil {
		log.Printf("Error getting submission by ID %s: %v", submissionID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Submission with ID %s not found", submissionID),
		})
	}
	return c.JSON(record)
}
