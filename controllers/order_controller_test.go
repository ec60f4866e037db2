package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig(t)

	customer := createTestUser(t, db, "order-customer@example.com", models.RoleCustomer)
	medicine := createTestMedicine(t, db, "Aspirin", 10, 3, false)

	router := setupTestRouter()
	router.POST("/orders", mockAuthMiddleware(customer), CreateOrder)

	t.Run("Successful order", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"medicine": medicine.ID, "quantity": 3},
			},
			"shippingAddress": "1 Main St",
			"paymentMethod":   "cash",
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		data := parseResponse(t, w)["data"].(map[string]interface{})
		assert.Equal(t, float64(30), data["totalPrice"])
		assert.Equal(t, "pending", data["status"])
		assert.Equal(t, float64(customer.ID), data["user_id"])

		items := data["items"].([]interface{})
		assert.Len(t, items, 1)
		item := items[0].(map[string]interface{})
		assert.Equal(t, float64(3), item["quantity"])
		assert.Equal(t, float64(10), item["price"])

		var updated models.Medicine
		db.First(&updated, medicine.ID)
		assert.Equal(t, 0, updated.Stock)
	})

	t.Run("Empty items fail validation", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
			"items":           []map[string]interface{}{},
			"shippingAddress": "1 Main St",
			"paymentMethod":   "cash",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", responseErrorCode(t, w))
	})

	t.Run("Missing shipping address", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"medicine": medicine.ID, "quantity": 1},
			},
			"paymentMethod": "cash",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unsupported payment method", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"medicine": medicine.ID, "quantity": 1},
			},
			"shippingAddress": "1 Main St",
			"paymentMethod":   "barter",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Insufficient stock maps to 400", func(t *testing.T) {
		// Stock was drained to zero by the successful order above.
		w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"medicine": medicine.ID, "quantity": 1},
			},
			"shippingAddress": "1 Main St",
			"paymentMethod":   "cash",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INSUFFICIENT_STOCK", responseErrorCode(t, w))
	})

	t.Run("Unknown medicine maps to 404", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
			"items": []map[string]interface{}{
				{"medicine": 999, "quantity": 1},
			},
			"shippingAddress": "1 Main St",
			"paymentMethod":   "cash",
		})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "MEDICINE_NOT_FOUND", responseErrorCode(t, w))
	})
}

func TestCreateOrderEndpoint_PrescriptionForbidden(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig(t)

	buyer := createTestUser(t, db, "buyer@example.com", models.RoleCustomer)
	other := createTestUser(t, db, "other@example.com", models.RoleCustomer)
	medicine := createTestMedicine(t, db, "Amoxicillin", 12, 50, true)
	prescription := createTestPrescription(t, other.ID, models.PrescriptionApproved)

	router := setupTestRouter()
	router.POST("/orders", mockAuthMiddleware(buyer), CreateOrder)

	w := performJSONRequest(router, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"medicine": medicine.ID, "quantity": 1},
		},
		"shippingAddress": "1 Main St",
		"paymentMethod":   "cash",
		"prescriptionId":  prescription.ID,
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", responseErrorCode(t, w))
}

func TestGetOrdersEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig(t)

	alice := createTestUser(t, db, "alice-orders@example.com", models.RoleCustomer)
	bob := createTestUser(t, db, "bob-orders@example.com", models.RoleCustomer)
	admin := createTestUser(t, db, "admin-orders@example.com", models.RoleAdmin)
	medicine := createTestMedicine(t, db, "Aspirin", 5, 100, false)

	seed := func(user *models.User) {
		order := models.Order{
			UserID: user.ID,
			Items: []models.OrderItem{
				{MedicineID: medicine.ID, Quantity: 1, Price: medicine.Price},
			},
			TotalPrice:      medicine.Price,
			Status:          models.OrderPending,
			PaymentMethod:   models.PaymentCash,
			ShippingAddress: "1 Main St",
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("Failed to seed order: %v", err)
		}
	}
	seed(alice)
	seed(alice)
	seed(bob)

	t.Run("Customer sees only their own", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/orders", mockAuthMiddleware(alice), GetOrders)

		w := performJSONRequest(router, http.MethodGet, "/orders", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		assert.Equal(t, float64(2), response["count"])
	})

	t.Run("Admin sees all with medicine names", func(t *testing.T) {
		router := setupTestRouter()
		router.GET("/orders", mockAuthMiddleware(admin), GetOrders)

		w := performJSONRequest(router, http.MethodGet, "/orders", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		response := parseResponse(t, w)
		assert.Equal(t, float64(3), response["count"])

		order := response["data"].([]interface{})[0].(map[string]interface{})
		item := order["items"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "Aspirin", item["medicine"].(map[string]interface{})["name"])
	})
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	setupTestConfig(t)

	customer := createTestUser(t, db, "status-customer@example.com", models.RoleCustomer)
	doctor := createTestUser(t, db, "status-doctor@example.com", models.RoleDoctor)

	order := models.Order{
		UserID:          customer.ID,
		TotalPrice:      10,
		Status:          models.OrderPending,
		PaymentMethod:   models.PaymentCash,
		ShippingAddress: "1 Main St",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to seed order: %v", err)
	}

	router := setupTestRouter()
	router.PUT("/orders/:id/status", mockAuthMiddleware(doctor), UpdateOrderStatus)

	t.Run("Valid transition", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPut,
			fmt.Sprintf("/orders/%d/status", order.ID),
			map[string]interface{}{"status": "confirmed"})

		assert.Equal(t, http.StatusOK, w.Code)

		var updated models.Order
		db.First(&updated, order.ID)
		assert.Equal(t, models.OrderConfirmed, updated.Status)
	})

	t.Run("Unknown status value", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPut,
			fmt.Sprintf("/orders/%d/status", order.ID),
			map[string]interface{}{"status": "teleported"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", responseErrorCode(t, w))
	})

	t.Run("Unknown order", func(t *testing.T) {
		w := performJSONRequest(router, http.MethodPut, "/orders/999/status",
			map[string]interface{}{"status": "confirmed"})

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "ORDER_NOT_FOUND", responseErrorCode(t, w))
	})
}
