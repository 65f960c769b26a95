package models

import "time"

// Employee represents a registry staff record kept for personnel tracking.
type Employee struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"size:255;not null" json:"name"`
	Position   string     `gorm:"size:128" json:"position"`
	Department string     `gorm:"size:128" json:"department"`
	Email      string     `gorm:"size:255" json:"email"`
	Phone      string     `gorm:"size:32" json:"phone"`
	HiredAt    *time.Time `json:"hired_at"`
	Notes      string     `gorm:"type:text" json:"notes"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
