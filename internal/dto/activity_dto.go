package dto

import (
	"time"

	"github.com/courtdesk/registry-api/internal/audit"
)

// ActivityItem is one audit trail entry decorated for display.
type ActivityItem struct {
	ID        uint               `json:"id"`
	CreatedAt time.Time          `json:"created_at"`
	User      *audit.UserSummary `json:"user"`
	Action    string             `json:"action"`
	Details   audit.Details      `json:"details"`
	IPAddress string             `json:"ip_address,omitempty"`
	UserAgent string             `json:"user_agent,omitempty"`
	Badge     audit.Badge        `json:"badge"`
	Summary   string             `json:"summary"`
}

// NewActivityItem builds the display item from a validated record.
func NewActivityItem(record audit.Record, badge audit.Badge, summary string) ActivityItem {
	return ActivityItem{
		ID:        record.ID,
		CreatedAt: record.CreatedAt,
		User:      record.User,
		Action:    string(record.Action),
		Details:   record.Details,
		IPAddress: record.IPAddress,
		UserAgent: record.UserAgent,
		Badge:     badge,
		Summary:   summary,
	}
}
