package repositories

import (
	"fmt"
	"sync"
	"time"
	"tienda/internal/models"

	"github.com/google/uuid"
)

// MockSubmissionJournal is an in-memory implementation of SubmissionJournal.
// It is used when no journal database is configured and in tests.
type MockSubmissionJournal struct {
	records []models.SubmissionRecord
	mu      sync.RWMutex
}

// NewMockSubmissionJournal creates a new instance of MockSubmissionJournal.
func NewMockSubmissionJournal() *MockSubmissionJournal {
	return &MockSubmissionJournal{
		records: make([]models.SubmissionRecord, 0),
	}
}

// Record appends a submission attempt to the journal.
func (r *MockSubmissionJournal) Record(record *models.SubmissionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()
	r.records = append(r.records, *record)
	return nil
}

// GetAll returns all journaled submissions, newest first.
func (r *MockSubmissionJournal) GetAll() ([]models.SubmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recordList := make([]models.SubmissionRecord, 0, len(r.records))
	for i := len(r.records) - 1; i >= 0; i-- {
		recordList = append(recordList, r.records[i])
	}
	return recordList, nil
}

// GetByID returns a journaled submission by its ID.
func (r *MockSubmissionJournal) GetByID(id string) (*models.SubmissionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.records {
		if record.ID == id {
			result := record
			return &result, nil
		}
	}
	return nil, fmt.Errorf("submission with ID %s not found", id)
}
