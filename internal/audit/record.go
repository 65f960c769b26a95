package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/courtdesk/registry-api/internal/models"
)

// UserSummary is the denormalized identity of the actor attached to a record
// on the read path.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Record is one fully re-validated audit trail entry, ready for presentation.
type Record struct {
	ID        uint         `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UserID    *string      `json:"user_id"`
	IPAddress string       `json:"ip_address"`
	UserAgent string       `json:"user_agent"`
	Action    Action       `json:"action"`
	Details   Details      `json:"details"`
	User      *UserSummary `json:"user"`
}

// ParseRecord re-validates a persisted row into a Record. It checks the base
// fields and re-runs the action/details pair through the same union used at
// write time, so rows written under a retired shape come back as an error
// instead of crashing the audit view.
func ParseRecord(row models.AuditLog) (Record, error) {
	if row.ID == 0 {
		return Record{}, fmt.Errorf("audit row missing id")
	}
	if row.CreatedAt.IsZero() {
		return Record{}, fmt.Errorf("audit row %d missing timestamp", row.ID)
	}

	action := Action(row.Action)
	if !action.Valid() {
		return Record{}, fmt.Errorf("audit row %d has unknown action %q", row.ID, row.Action)
	}

	details, err := ParseDetails(action, row.Details)
	if err != nil {
		return Record{}, fmt.Errorf("audit row %d: %w", row.ID, err)
	}

	if row.UserID != nil && strings.TrimSpace(*row.UserID) == "" {
		return Record{}, fmt.Errorf("audit row %d has empty user reference", row.ID)
	}

	record := Record{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		UserID:    row.UserID,
		IPAddress: row.IPAddress,
		UserAgent: row.UserAgent,
		Action:    action,
		Details:   details,
	}

	if row.User != nil {
		record.User = &UserSummary{
			ID:    row.User.ID,
			Name:  row.User.Name,
			Email: row.User.Email,
			Role:  row.User.Role,
		}
	}

	return record, nil
}
