package models

import (
	"time"

	"gorm.io/gorm"
)

// Prescription review states.
const (
	PrescriptionPending  = "pending"
	PrescriptionApproved = "approved"
	PrescriptionRejected = "rejected"
)

// Prescription is an uploaded prescription image owned by one user.
// Status moves from pending to approved/rejected exactly once via
// doctor/admin review; reviewed records cannot be re-reviewed.
type Prescription struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	User         User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ImageURL     string         `gorm:"not null" json:"imageUrl"`
	Status       string         `gorm:"not null;default:'pending'" json:"status"`
	ReviewedByID *uint          `gorm:"index" json:"reviewed_by_id,omitempty"`
	ReviewedBy   *User          `gorm:"foreignKey:ReviewedByID" json:"reviewedBy,omitempty"`
	ReviewNotes  string         `json:"reviewNotes,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Prescription model
func (Prescription) TableName() string {
	return "prescriptions"
}
