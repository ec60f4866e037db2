package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/middleware"
	"github.com/quickmeds/pharmacy-api/models"
	"github.com/quickmeds/pharmacy-api/services"
)

// UpdateOrderStatusRequest represents the request body for an order status change
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// CreateOrder handles POST /api/v1/orders - runs the order placement workflow
func CreateOrder(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	var req services.PlaceOrderInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.NewOrderService(config.GetDB()).PlaceOrder(user.ID, req)
	if err != nil {
		var orderErr *services.OrderError
		if errors.As(err, &orderErr) {
			c.JSON(orderErr.Status, gin.H{
				"success": false,
				"error": gin.H{
					"code":    orderErr.Code,
					"message": orderErr.Message,
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetOrders handles GET /api/v1/orders - staff see all orders with owner
// info, customers see only their own
func GetOrders(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	db := config.GetDB()
	var orders []models.Order

	query := db.Model(&models.Order{}).Preload("Items.Medicine")
	if user.IsStaff() {
		query = query.Preload("User")
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(orders),
		"data":    orders,
	})
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status - lifecycle
// transition (doctor/admin only)
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order id",
			},
		})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid order status",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ORDER_NOT_FOUND",
				"message": "Order not found with id of " + c.Param("id"),
			},
		})
		return
	}

	if err := db.Model(&order).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order status",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}
