package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/quickmeds/pharmacy-api/models"
	"gorm.io/gorm"
)

// OrderError represents an order workflow failure with its HTTP status
type OrderError struct {
	Code    string
	Message string
	Status  int
}

func (e *OrderError) Error() string {
	return e.Message
}

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	MedicineID uint `json:"medicine" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderInput is the validated request for creating an order
type PlaceOrderInput struct {
	Items           []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	ShippingAddress string           `json:"shippingAddress" binding:"required"`
	PaymentMethod   string           `json:"paymentMethod" binding:"required,oneof=cash stripe"`
	PrescriptionID  *uint            `json:"prescriptionId"`
}

// OrderService runs the order placement workflow
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates a new order service
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// PlaceOrder validates the requested items against the catalog, enforces the
// prescription gate, then commits the stock decrements and the order in a
// single transaction. Either everything persists or nothing does: a failed
// prescription check or a lost stock race rolls the whole order back, so
// stock can never go negative or leak partial decrements.
func (s *OrderService) PlaceOrder(userID uint, in PlaceOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, &OrderError{
			Code:    "VALIDATION_ERROR",
			Message: "No order items",
			Status:  http.StatusBadRequest,
		}
	}

	var created *models.Order

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var (
			totalPrice        float64
			orderItems        []models.OrderItem
			needsPrescription bool
		)

		// Validate items in input order, snapshotting the unit price.
		for _, item := range in.Items {
			if item.Quantity < 1 {
				return &OrderError{
					Code:    "VALIDATION_ERROR",
					Message: "Item quantity must be at least 1",
					Status:  http.StatusBadRequest,
				}
			}

			var medicine models.Medicine
			if err := tx.First(&medicine, item.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &OrderError{
						Code:    "MEDICINE_NOT_FOUND",
						Message: fmt.Sprintf("Medicine not found with id of %d", item.MedicineID),
						Status:  http.StatusNotFound,
					}
				}
				return err
			}

			if item.Quantity > medicine.Stock {
				return &OrderError{
					Code:    "INSUFFICIENT_STOCK",
					Message: fmt.Sprintf("Insufficient stock for %s", medicine.Name),
					Status:  http.StatusBadRequest,
				}
			}

			if medicine.RequiresPrescription {
				needsPrescription = true
			}

			totalPrice += medicine.Price * float64(item.Quantity)
			orderItems = append(orderItems, models.OrderItem{
				MedicineID: medicine.ID,
				Quantity:   item.Quantity,
				Price:      medicine.Price,
			})
		}

		// Prescription gate runs before any stock is touched.
		if needsPrescription {
			if in.PrescriptionID == nil {
				return &OrderError{
					Code:    "PRESCRIPTION_REQUIRED",
					Message: "Order contains prescription-only drugs. Please provide a prescription ID.",
					Status:  http.StatusBadRequest,
				}
			}

			var prescription models.Prescription
			if err := tx.First(&prescription, *in.PrescriptionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &OrderError{
						Code:    "INVALID_PRESCRIPTION",
						Message: "Invalid prescription",
						Status:  http.StatusBadRequest,
					}
				}
				return err
			}

			if prescription.UserID != userID {
				return &OrderError{
					Code:    "FORBIDDEN",
					Message: "Prescription does not belong to this user",
					Status:  http.StatusForbidden,
				}
			}

			if prescription.Status != models.PrescriptionApproved {
				return &OrderError{
					Code:    "PRESCRIPTION_NOT_APPROVED",
					Message: "Prescription must be approved before ordering",
					Status:  http.StatusBadRequest,
				}
			}
		}

		// Commit the decrements. The stock guard re-checks under the
		// transaction so a concurrent order losing the race rolls back
		// instead of driving stock negative.
		for _, item := range orderItems {
			result := tx.Model(&models.Medicine{}).
				Where("id = ? AND stock >= ?", item.MedicineID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &OrderError{
					Code:    "INSUFFICIENT_STOCK",
					Message: fmt.Sprintf("Insufficient stock for medicine %d", item.MedicineID),
					Status:  http.StatusBadRequest,
				}
			}
		}

		order := models.Order{
			UserID:          userID,
			Items:           orderItems,
			TotalPrice:      totalPrice,
			Status:          models.OrderPending,
			PaymentMethod:   in.PaymentMethod,
			ShippingAddress: in.ShippingAddress,
		}
		if needsPrescription {
			order.PrescriptionID = in.PrescriptionID
		}

		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		if err := tx.Preload("Items.Medicine").Preload("User").First(&order, order.ID).Error; err != nil {
			return err
		}

		created = &order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}
