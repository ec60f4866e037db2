package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles.
const (
	RoleCustomer = "customer"
	RoleDoctor   = "doctor"
	RoleAdmin    = "admin"
)

// User represents an account in the system (customer, doctor or admin)
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	Role         string         `gorm:"not null;default:'customer'" json:"role"`
	RefreshToken string         `json:"-"` // last-issued refresh token; single active session per user
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user may act on other users' records
// (prescription review, order status, full listings).
func (u *User) IsStaff() bool {
	return u.Role == RoleDoctor || u.Role == RoleAdmin
}
