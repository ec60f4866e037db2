package models

import (
	"time"

	"gorm.io/gorm"
)

// Order lifecycle states.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Payment methods.
const (
	PaymentCash   = "cash"
	PaymentStripe = "stripe"
)

// ValidOrderStatus reports whether s is one of the order lifecycle states.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order represents a placed order owned by one user
type Order struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UserID          uint           `gorm:"not null;index" json:"user_id"`
	User            User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items           []OrderItem    `gorm:"foreignKey:OrderID" json:"items"`
	TotalPrice      float64        `gorm:"not null" json:"totalPrice"`
	PrescriptionID  *uint          `gorm:"index" json:"prescription_id,omitempty"`
	Prescription    *Prescription  `gorm:"foreignKey:PrescriptionID" json:"prescription,omitempty"`
	Status          string         `gorm:"not null;default:'pending'" json:"status"`
	PaymentMethod   string         `gorm:"not null;default:'cash'" json:"paymentMethod"`
	ShippingAddress string         `gorm:"not null" json:"shippingAddress"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem is one line of an order. Price is the unit price captured at
// order-creation time; later catalog price changes must not alter it.
// MedicineID is a weak reference: deleting a medicine does not cascade here.
type OrderItem struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	MedicineID uint      `gorm:"not null;index" json:"medicine_id"`
	Medicine   *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
	Quantity   int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	Price      float64   `gorm:"not null" json:"price"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}
