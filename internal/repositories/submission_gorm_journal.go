package repositories

import (
	"fmt"
	"tienda/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMSubmissionJournal is a GORM implementation of SubmissionJournal.
type GORMSubmissionJournal struct {
	db *gorm.DB
}

// NewGORMSubmissionJournal creates a new instance of GORMSubmissionJournal.
func NewGORMSubmissionJournal(db *gorm.DB) *GORMSubmissionJournal {
	return &GORMSubmissionJournal{
		db: db,
	}
}

// Record appends a submission attempt to the journal.
func (r *GORMSubmissionJournal) Record(record *models.SubmissionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("failed to record submission: %w", err)
	}
	return nil
}

// GetAll retrieves all journaled submissions, newest first.
func (r *GORMSubmissionJournal) GetAll() ([]models.SubmissionRecord, error) {
	var records []models.SubmissionRecord
	if err := r.db.Order("created_at desc").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}
	return records, nil
}

// GetByID retrieves a single journaled submission by its ID.
func (r *GORMSubmissionJournal) GetByID(id string) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("submission with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get submission by ID %s: %w", id, err)
	}
	return &record, nil
}
