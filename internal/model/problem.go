package model

import "time"

// ProblemSeverity grades how serious a catalog problem is.
type ProblemSeverity string

const (
	SeverityLow    ProblemSeverity = "low"
	SeverityMedium ProblemSeverity = "medium"
	SeverityHigh   ProblemSeverity = "high"
)

// ValidSeverity reports whether s is a recognized severity.
func ValidSeverity(s ProblemSeverity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	}
	return false
}

// ProblemCategory owns an ordered list of known printer problems.
type ProblemCategory struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Icon      string    `gorm:"size:16" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Problems []Problem `gorm:"foreignKey:CategoryID" json:"problems"`
}

// Problem is a catalog entry describing a known failure mode. Estimated time
// and cost are free-text descriptors, not parsed values.
type Problem struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	CategoryID    string          `gorm:"size:36;index;not null" json:"category_id"`
	Name          string          `gorm:"size:256;not null" json:"name"`
	Description   string          `json:"description"`
	Severity      ProblemSeverity `gorm:"size:16;not null" json:"severity"`
	EstimatedTime string          `gorm:"size:64" json:"estimated_time"`
	EstimatedCost string          `gorm:"size:64" json:"estimated_cost"`
	CreatedAt     time.Time       `json:"created_at"`
}
