package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures one auditable event in the registry's activity trail.
// Rows are append-only: the subsystem exposes no update or delete path, and
// UserID is a weak reference so log rows outlive the account that wrote them.
type AuditLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *string        `gorm:"type:uuid;index" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IPAddress string         `gorm:"size:64" json:"ip_address"`
	UserAgent string         `gorm:"size:512" json:"user_agent"`
	Action    string         `gorm:"size:64;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:json" json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}
