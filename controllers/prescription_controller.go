package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/middleware"
	"github.com/quickmeds/pharmacy-api/models"
	"github.com/quickmeds/pharmacy-api/services"
	"github.com/quickmeds/pharmacy-api/utils"
)

// ReviewPrescriptionRequest represents the request body for a review decision
type ReviewPrescriptionRequest struct {
	Status      string `json:"status" binding:"required,oneof=approved rejected"`
	ReviewNotes string `json:"reviewNotes"`
}

// UploadPrescription handles POST /api/v1/prescriptions - multipart upload of
// a prescription image, owned by the caller, created in pending state
func UploadPrescription(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	fileHeader, err := c.FormFile("prescription")
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

	key, err := services.GetFileStorage().Save(fileHeader)
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

	prescription := models.Prescription{
		UserID:   user.ID,
		ImageURL: key,
		Status:   models.PrescriptionPending,
	}

	if err := config.GetDB().Create(&prescription).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create prescription",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    prescription,
	})
}

// GetPrescriptions handles GET /api/v1/prescriptions - staff see all
// prescriptions with owner info, customers see only their own
func GetPrescriptions(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	db := config.GetDB()
	var prescriptions []models.Prescription

	query := db.Model(&models.Prescription{})
	if user.IsStaff() {
		query = query.Preload("User")
	} else {
		query = query.Where("user_id = ?", user.ID)
	}

	if err := query.Order("created_at DESC").Find(&prescriptions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch prescriptions",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(prescriptions),
		"data":    prescriptions,
	})
}

// ReviewPrescription handles PUT /api/v1/prescriptions/:id/review -
// doctor/admin approval or rejection with notes and reviewer identity.
// A prescription that has already been reviewed cannot be reviewed again.
func ReviewPrescription(c *gin.Context) {
	reviewer, err := middleware.GetCurrentUser(c)
	if err != nil {
		unauthorized(c)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid prescription id",
			},
		})
		return
	}

	var req ReviewPrescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Status must be approved or rejected",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var prescription models.Prescription
	if err := db.First(&prescription, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRESCRIPTION_NOT_FOUND",
				"message": "Prescription not found with id of " + c.Param("id"),
			},
		})
		return
	}

	if prescription.Status != models.PrescriptionPending {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_REVIEWED",
				"message": "Prescription has already been reviewed",
			},
		})
		return
	}

	updates := map[string]interface{}{
		"status":         req.Status,
		"review_notes":   req.ReviewNotes,
		"reviewed_by_id": reviewer.ID,
	}
	if err := db.Model(&prescription).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update prescription",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    prescription,
	})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": "Could not extract user information",
		},
	})
}
