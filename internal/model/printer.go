package model

import "time"

// PrinterType classifies a printer model.
type PrinterType string

const (
	TypeInkjet        PrinterType = "inkjet"
	TypeLaser         PrinterType = "laser"
	TypeMultifunction PrinterType = "multifunction"
	TypeDotMatrix     PrinterType = "dot_matrix"
	TypeThermal       PrinterType = "thermal"
)

// ValidPrinterType reports whether t is a recognized printer type.
func ValidPrinterType(t PrinterType) bool {
	switch t {
	case TypeInkjet, TypeLaser, TypeMultifunction, TypeDotMatrix, TypeThermal:
		return true
	}
	return false
}

// PrinterBrand owns an ordered list of printer models. Models are always
// accessed through their owning brand.
type PrinterBrand struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Models []PrinterModel `gorm:"foreignKey:BrandID" json:"models"`
}

// PrinterModel belongs to exactly one brand. Deleted independently by id.
type PrinterModel struct {
	ID        string      `gorm:"primaryKey;size:36" json:"id"`
	BrandID   string      `gorm:"size:36;index;not null" json:"brand_id"`
	Name      string      `gorm:"size:128;not null" json:"name"`
	Type      PrinterType `gorm:"size:32;not null" json:"type"`
	CreatedAt time.Time   `json:"created_at"`
}
