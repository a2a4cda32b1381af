package model

import (
	"time"

	"github.com/google/uuid"
)

// FinancialRecord is a line-item row extracted from a financial report
// sheet. Grand-total rows are excluded at extraction time so aggregates
// over this table do not double count.
type FinancialRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;index;not null" json:"document_id"`

	LineItem string     `gorm:"not null" json:"line_item"`
	Amount   float64    `json:"amount"`
	Period   *time.Time `gorm:"index" json:"period,omitempty"`
	Sheet    string     `json:"sheet"`

	CreatedAt time.Time `json:"created_at"`
}
