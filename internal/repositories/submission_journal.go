package repositories

import (
	"tienda/internal/models"
)

// SubmissionJournal defines the interface for recording order submission
// attempts and reading them back.
type SubmissionJournal interface {
	Record(record *models.SubmissionRecord) error
	GetAll() ([]models.SubmissionRecord, error)
	GetByID(id string) (*models.SubmissionRecord, error)
}
