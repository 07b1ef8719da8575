package models

import "gorm.io/gorm"

// SubmissionRecord is a journal entry for one order submission attempt.
// Every attempt is recorded, successful or not, so the admin surface can
// audit what was sent to the backend.
type SubmissionRecord struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Email       string `json:"email" gorm:"type:varchar(255)"`
	City        string `json:"city" gorm:"type:varchar(100)"`
	ItemCount   int    `json:"item_count"`
	TotalAmount string `json:"total_amount" gorm:"type:varchar(32)"`
	Succeeded   bool   `json:"succeeded"`
	OrderID     string `json:"order_id" gorm:"type:varchar(100)"`
	OrderName   string `json:"order_name" gorm:"type:varchar(100)"`
	ErrorDetail string `json:"error_detail" gorm:"type:varchar(500)"`
	gorm.Model         // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
