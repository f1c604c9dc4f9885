package model

import "time"

// Technician represents a repair technician in the admin catalog.
type Technician struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Name           string    `gorm:"size:256;not null" json:"name"`
	Phone          string    `gorm:"size:32" json:"phone"`
	Email          string    `gorm:"size:256" json:"email"`
	Experience     int       `gorm:"not null;default:0" json:"experience"`
	Rating         float64   `gorm:"not null;default:0" json:"rating"`
	Specialization []string  `gorm:"serializer:json" json:"specialization"`
	Schedule       string    `gorm:"size:256" json:"schedule"`
	IsAvailable    bool      `gorm:"not null;default:true" json:"is_available"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
