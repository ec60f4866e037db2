package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/models"
	"github.com/quickmeds/pharmacy-api/services"
	"github.com/quickmeds/pharmacy-api/utils"
)

// medicineFields is the allow-list of query-parameter names the catalog list
// accepts for filtering, projection and sorting, mapped to columns.
var medicineFields = map[string]string{
	"name":                 "name",
	"description":          "description",
	"price":                "price",
	"stock":                "stock",
	"category":             "category",
	"manufacturer":         "manufacturer",
	"requiresPrescription": "requires_prescription",
	"expiryDate":           "expiry_date",
	"image":                "image",
	"createdAt":            "created_at",
}

var medicineSearchColumns = []string{"name", "description"}

// CreateMedicineRequest represents the request body for creating a medicine
type CreateMedicineRequest struct {
	Name                 string    `json:"name" binding:"required"`
	Description          string    `json:"description" binding:"required"`
	Price                float64   `json:"price" binding:"required,gt=0"`
	Stock                *int      `json:"stock" binding:"required,gte=0"`
	Category             string    `json:"category" binding:"required"`
	Manufacturer         string    `json:"manufacturer" binding:"required"`
	ExpiryDate           time.Time `json:"expiryDate" binding:"required"`
	RequiresPrescription bool      `json:"requiresPrescription"`
}

// UpdateMedicineRequest represents the request body for a partial update
type UpdateMedicineRequest struct {
	Name                 *string    `json:"name"`
	Description          *string    `json:"description"`
	Price                *float64   `json:"price" binding:"omitempty,gt=0"`
	Stock                *int       `json:"stock" binding:"omitempty,gte=0"`
	Category             *string    `json:"category"`
	Manufacturer         *string    `json:"manufacturer"`
	ExpiryDate           *time.Time `json:"expiryDate"`
	RequiresPrescription *bool      `json:"requiresPrescription"`
}

// GetMedicines handles GET /api/v1/medicines - public filterable, sortable,
// paginated catalog listing
func GetMedicines(c *gin.Context) {
	query := utils.ParseListQuery(c.Request.URL.Query(), medicineFields, medicineSearchColumns)

	db := config.GetDB()

	var total int64
	if err := query.ApplyFilters(db.Model(&models.Medicine{})).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count medicines",
			},
		})
		return
	}

	var medicines []models.Medicine
	if err := query.Apply(db.Model(&models.Medicine{})).Find(&medicines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch medicines",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"count":      len(medicines),
		"pagination": query.Pagination(total),
		"data":       medicines,
	})
}

// GetMedicine handles GET /api/v1/medicines/:id - public single medicine lookup
func GetMedicine(c *gin.Context) {
	medicine, ok := findMedicine(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    medicine,
	})
}

// CreateMedicine handles POST /api/v1/medicines - adds a catalog entry (admin only)
func CreateMedicine(c *gin.Context) {
	var req CreateMedicineRequest
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

	medicine := models.Medicine{
		Name:                 req.Name,
		Description:          req.Description,
		Price:                req.Price,
		Stock:                *req.Stock,
		Category:             req.Category,
		Manufacturer:         req.Manufacturer,
		ExpiryDate:           req.ExpiryDate,
		RequiresPrescription: req.RequiresPrescription,
	}

	if err := config.GetDB().Create(&medicine).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create medicine",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    medicine,
	})
}

// UpdateMedicine handles PUT /api/v1/medicines/:id - partial catalog update (admin only)
func UpdateMedicine(c *gin.Context) {
	medicine, ok := findMedicine(c)
	if !ok {
		return
	}

	var req UpdateMedicineRequest
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

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Manufacturer != nil {
		updates["manufacturer"] = *req.Manufacturer
	}
	if req.ExpiryDate != nil {
		updates["expiry_date"] = *req.ExpiryDate
	}
	if req.RequiresPrescription != nil {
		updates["requires_prescription"] = *req.RequiresPrescription
	}

	db := config.GetDB()
	if len(updates) > 0 {
		if err := db.Model(medicine).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update medicine",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    medicine,
	})
}

// DeleteMedicine handles DELETE /api/v1/medicines/:id (admin only).
// The delete is soft so historical order items keep resolving.
func DeleteMedicine(c *gin.Context) {
	medicine, ok := findMedicine(c)
	if !ok {
		return
	}

	if err := config.GetDB().Delete(medicine).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete medicine",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// UploadMedicinePhoto handles PUT /api/v1/medicines/:id/photo - multipart
// image upload for a catalog entry (admin only)
func UploadMedicinePhoto(c *gin.Context) {
	medicine, ok := findMedicine(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_REQUIRED",
				"message": "Please upload a file",
			},
		})
		return
	}

	if err := utils.ValidateImageFile(fileHeader); err != nil {
		uploadErr := err.(*utils.FileUploadError)
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    uploadErr.Code,
				"message": uploadErr.Message,
			},
		})
		return
	}

	storage := services.GetFileStorage()
	key, err := storage.Save(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to store uploaded file",
			},
		})
		return
	}

	if err := config.GetDB().Model(medicine).Update("image", key).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update medicine image",
			},
		})
		return
	}

	imageURL, _ := storage.URL(key)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"image":    key,
			"imageUrl": imageURL,
		},
	})
}

// findMedicine resolves the :id path parameter to a medicine, writing the
// error response itself when the id is malformed or unknown
func findMedicine(c *gin.Context) (*models.Medicine, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid medicine id",
			},
		})
		return nil, false
	}

	var medicine models.Medicine
	if err := config.GetDB().First(&medicine, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MEDICINE_NOT_FOUND",
				"message": "Medicine not found with id of " + c.Param("id"),
			},
		})
		return nil, false
	}

	return &medicine, true
}
