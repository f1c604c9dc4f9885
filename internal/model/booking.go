package model

import "time"

// BookingStatus is the lifecycle state of a service booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in-progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
)

// ValidStatus reports whether s is one of the recognized booking statuses.
// Transitions between statuses are not constrained: any status may be set
// from any status.
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Booking represents a printer repair booking. Bookings are never deleted,
// only status-transitioned.
type Booking struct {
	ID                 string        `gorm:"primaryKey;size:36" json:"id"`
	CustomerName       string        `gorm:"size:256;not null" json:"customer_name"`
	CustomerPhone      string        `gorm:"size:32" json:"customer_phone"`
	PrinterBrand       string        `gorm:"size:128" json:"printer_brand"`
	PrinterModel       string        `gorm:"size:128" json:"printer_model"`
	ProblemCategory    string        `gorm:"size:128" json:"problem_category"`
	ProblemDescription string        `json:"problem_description"`
	ServiceType        string        `gorm:"size:64" json:"service_type"`
	ServiceDate        string        `gorm:"size:32" json:"service_date"`
	ServiceTime        string        `gorm:"size:32" json:"service_time"`
	Status             BookingStatus `gorm:"size:32;not null;default:pending" json:"status"`
	Technician         *string       `gorm:"size:256" json:"technician"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// TableName keeps the table name used by the original dashboard schema.
func (Booking) TableName() string { return "service_bookings" }
