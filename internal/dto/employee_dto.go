package dto

import (
	"time"

	"github.com/courtdesk/registry-api/internal/models"
)

// EmployeeResponse serializes a staff record.
type EmployeeResponse struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	HiredAt    *time.Time `json:"hired_at"`
	Notes      string     `json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// NewEmployeeResponse converts an employee model into a DTO.
func NewEmployeeResponse(e models.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:         e.ID,
		Name:       e.Name,
		Position:   e.Position,
		Department: e.Department,
		Email:      e.Email,
		Phone:      e.Phone,
		HiredAt:    e.HiredAt,
		Notes:      e.Notes,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

// EmployeeListRequest defines filters for listing employees.
type EmployeeListRequest struct {
	Page       int
	PageSize   int
	Search     string
	Department string
}

// EmployeeListResponse wraps a paginated employee listing.
type EmployeeListResponse struct {
	Items      []EmployeeResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// CreateEmployeeRequest adds a staff record.
type CreateEmployeeRequest struct {
	Name       string     `json:"name" validate:"required,min=1"`
	Position   string     `json:"position"`
	Department string     `json:"department"`
	Email      string     `json:"email" validate:"omitempty,email"`
	Phone      string     `json:"phone"`
	HiredAt    *time.Time `json:"hired_at"`
	Notes      string     `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateEmployeeRequest captures partial staff record edits.
type UpdateEmployeeRequest struct {
	Name       *string    `json:"name" validate:"omitempty,min=1"`
	Position   *string    `json:"position"`
	Department *string    `json:"department"`
	Email      *string    `json:"email" validate:"omitempty,email"`
	Phone      *string    `json:"phone"`
	HiredAt    *time.Time `json:"hired_at"`
	Notes      *string    `json:"notes" validate:"omitempty,max=2000"`
}
