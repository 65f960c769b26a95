package dto

import (
	"time"

	"github.com/courtdesk/registry-api/internal/models"
)

// CaseResponse serializes a court case.
type CaseResponse struct {
	ID          uint      `json:"id"`
	Number      string    `json:"number"`
	Title       string    `json:"title"`
	Petitioner  string    `json:"petitioner"`
	Respondent  string    `json:"respondent"`
	CaseType    string    `json:"case_type"`
	Status      string    `json:"status"`
	FiledAt     time.Time `json:"filed_at"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCaseResponse converts a case model into a DTO.
func NewCaseResponse(c models.Case) CaseResponse {
	return CaseResponse{
		ID:          c.ID,
		Number:      c.Number,
		Title:       c.Title,
		Petitioner:  c.Petitioner,
		Respondent:  c.Respondent,
		CaseType:    c.CaseType,
		Status:      c.Status,
		FiledAt:     c.FiledAt,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CaseListRequest defines filters for listing cases.
type CaseListRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	CaseType string
}

// CaseListResponse wraps a paginated case listing.
type CaseListResponse struct {
	Items      []CaseResponse `json:"items"`
	Pagination PaginationMeta `json:"pagination"`
}

// CreateCaseRequest dockets a new case.
type CreateCaseRequest struct {
	Number      string    `json:"number" validate:"required,min=1"`
	Title       string    `json:"title" validate:"required,min=1"`
	Petitioner  string    `json:"petitioner"`
	Respondent  string    `json:"respondent"`
	CaseType    string    `json:"case_type"`
	FiledAt     time.Time `json:"filed_at"`
	Description string    `json:"description" validate:"omitempty,max=4000"`
}

// UpdateCaseRequest captures partial case edits.
type UpdateCaseRequest struct {
	Number      *string `json:"number" validate:"omitempty,min=1"`
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Petitioner  *string `json:"petitioner"`
	Respondent  *string `json:"respondent"`
	CaseType    *string `json:"case_type"`
	Status      *string `json:"status" validate:"omitempty,oneof=open suspended closed"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
}
