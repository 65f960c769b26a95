package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registry staff account that can sign in to the system.
type User struct {
	ID              string         `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string         `gorm:"size:255;not null" json:"name"`
	Email           string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Role            string         `gorm:"size:32;not null" json:"role"`
	Active          bool           `gorm:"not null" json:"active"`
	MustSetPassword bool           `gorm:"not null;default:false" json:"must_set_password"`
	ResetToken      string         `gorm:"size:64;index" json:"-"`
	ResetExpiresAt  *time.Time     `json:"-"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

const (
	// RoleAdmin can manage accounts and view every surface.
	RoleAdmin = "admin"
	// RoleRegistrar manages cases, employees and the receiving log.
	RoleRegistrar = "registrar"
	// RoleClerk has read access plus receiving-log entry.
	RoleClerk = "clerk"
)

// Roles lists every assignable role.
func Roles() []string {
	return []string{RoleAdmin, RoleRegistrar, RoleClerk}
}

// IsValidRole reports whether the supplied role is assignable.
func IsValidRole(role string) bool {
	for _, r := range Roles() {
		if r == role {
			return true
		}
	}
	return false
}

// BeforeCreate assigns a UUID primary key when none was provided.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
