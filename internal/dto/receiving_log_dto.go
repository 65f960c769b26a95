package dto

import (
	"time"

	"github.com/courtdesk/registry-api/internal/models"
)

// ReceivingLogResponse serializes one register entry.
type ReceivingLogResponse struct {
	ID           uint      `json:"id"`
	Sequence     uint      `json:"sequence"`
	Year         int       `json:"year"`
	Sender       string    `json:"sender"`
	DocumentType string    `json:"document_type"`
	CaseNumber   string    `json:"case_number"`
	ReceivedAt   time.Time `json:"received_at"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReceivingLogResponse converts a register entry into a DTO.
func NewReceivingLogResponse(entry models.ReceivingLog) ReceivingLogResponse {
	return ReceivingLogResponse{
		ID:           entry.ID,
		Sequence:     entry.Sequence,
		Year:         entry.Year,
		Sender:       entry.Sender,
		DocumentType: entry.DocumentType,
		CaseNumber:   entry.CaseNumber,
		ReceivedAt:   entry.ReceivedAt,
		Notes:        entry.Notes,
		CreatedAt:    entry.CreatedAt,
	}
}

// ReceivingLogListRequest defines filters for listing register entries.
type ReceivingLogListRequest struct {
	Page       int
	PageSize   int
	Year       int
	CaseNumber string
}

// ReceivingLogListResponse wraps a paginated register listing.
type ReceivingLogListResponse struct {
	Items      []ReceivingLogResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// CreateReceivingLogRequest records an incoming document.
type CreateReceivingLogRequest struct {
	Sender       string    `json:"sender" validate:"required,min=1"`
	DocumentType string    `json:"document_type"`
	CaseNumber   string    `json:"case_number"`
	ReceivedAt   time.Time `json:"received_at"`
	Notes        string    `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateReceivingLogRequest captures partial register edits. Sequence and
// year are assigned at creation and never change.
type UpdateReceivingLogRequest struct {
	Sender       *string `json:"sender" validate:"omitempty,min=1"`
	DocumentType *string `json:"document_type"`
	CaseNumber   *string `json:"case_number"`
	Notes        *string `json:"notes" validate:"omitempty,max=2000"`
}
