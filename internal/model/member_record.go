package model

import (
	"time"

	"github.com/google/uuid"
)

// MemberRecord is a typed row extracted from a member/dividend spreadsheet.
// Rows with a blank name or a zero dividend are never stored.
type MemberRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;index;not null" json:"document_id"`

	MemberName string     `gorm:"index;not null" json:"member_name"`
	Dividend   float64    `json:"dividend"`
	Period     *time.Time `gorm:"index" json:"period,omitempty"`
	Sheet      string     `json:"sheet"`

	CreatedAt time.Time `json:"created_at"`
}
