package models

import (
	"time"

	"gorm.io/gorm"
)

// Medicine represents a catalog entry
type Medicine struct {
	ID                   uint           `gorm:"primaryKey" json:"id"`
	Name                 string         `gorm:"not null;index" json:"name"`
	Description          string         `gorm:"not null" json:"description"`
	Price                float64        `gorm:"not null;check:price > 0" json:"price"`
	Stock                int            `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	Category             string         `gorm:"not null;index" json:"category"`
	Manufacturer         string         `gorm:"not null" json:"manufacturer"`
	ExpiryDate           time.Time      `gorm:"not null" json:"expiryDate"`
	RequiresPrescription bool           `gorm:"not null;default:false" json:"requiresPrescription"`
	Image                string         `gorm:"default:'no-photo.jpg'" json:"image"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Medicine model
func (Medicine) TableName() string {
	return "medicines"
}
