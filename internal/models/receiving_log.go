package models

import "time"

// ReceivingLog is one entry in the registry's register of incoming documents.
type ReceivingLog struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Sequence     uint      `gorm:"not null;uniqueIndex:idx_receiving_year_seq" json:"sequence"`
	Year         int       `gorm:"not null;uniqueIndex:idx_receiving_year_seq" json:"year"`
	Sender       string    `gorm:"size:255;not null" json:"sender"`
	DocumentType string    `gorm:"size:128" json:"document_type"`
	CaseNumber   string    `gorm:"size:64;index" json:"case_number"`
	ReceivedAt   time.Time `json:"received_at"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
