package models

import "time"

// Case represents a docketed court case tracked by the registry.
type Case struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Number      string    `gorm:"size:64;uniqueIndex;not null" json:"number"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Petitioner  string    `gorm:"size:255" json:"petitioner"`
	Respondent  string    `gorm:"size:255" json:"respondent"`
	CaseType    string    `gorm:"size:64" json:"case_type"`
	Status      string    `gorm:"size:32;not null" json:"status"`
	FiledAt     time.Time `json:"filed_at"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	// CaseStatusOpen marks a case still before the court.
	CaseStatusOpen = "open"
	// CaseStatusSuspended marks a case whose proceedings are on hold.
	CaseStatusSuspended = "suspended"
	// CaseStatusClosed marks a concluded case.
	CaseStatusClosed = "closed"
)

// IsClosed reports whether the case has been concluded.
func (c Case) IsClosed() bool {
	return c.Status == CaseStatusClosed
}

// IsValidCaseStatus reports whether the supplied status is one a case may hold.
func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusOpen, CaseStatusSuspended, CaseStatusClosed:
		return true
	}
	return false
}
