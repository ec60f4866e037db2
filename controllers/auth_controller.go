package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/middleware"
	"github.com/quickmeds/pharmacy-api/models"
	"github.com/quickmeds/pharmacy-api/services"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest represents the request body for registering an account
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=customer doctor admin"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the request body for rotating tokens
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Register handles POST /api/v1/auth/register - creates an account and returns tokens
func Register(c *gin.Context) {
	var req RegisterRequest
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

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVER_ERROR",
				"message": "Failed to process password",
			},
		})
		return
	}

	role := req.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		Role:     role,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		// Duplicate email detection works with both PostgreSQL and SQLite
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") || strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": "A user with this email already exists",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	sendTokenResponse(c, &user, http.StatusCreated)
}

// Login handles POST /api/v1/auth/login - verifies credentials and returns tokens.
// Unknown email and wrong password produce identical responses so the two
// cases cannot be distinguished.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Please provide an email and password",
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		invalidCredentials(c)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		invalidCredentials(c)
		return
	}

	sendTokenResponse(c, &user, http.StatusOK)
}

// Refresh handles POST /api/v1/auth/refresh - rotates the token pair.
// The presented refresh token must verify AND match the single token stored
// for the user; issuing a new pair invalidates the previous one.
func Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Refresh token is required",
			},
		})
		return
	}

	tokens := services.NewTokenService(config.GetConfig())
	claims, err := tokens.VerifyRefreshToken(req.RefreshToken)
	if err != nil {
		invalidRefreshToken(c)
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, claims.UserID).Error; err != nil {
		invalidRefreshToken(c)
		return
	}

	if user.RefreshToken != req.RefreshToken {
		invalidRefreshToken(c)
		return
	}

	sendTokenResponse(c, &user, http.StatusOK)
}

// Me handles GET /api/v1/auth/me - returns the authenticated user
func Me(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// GetUsers handles GET /api/v1/auth/users - lists all users (admin only)
func GetUsers(c *gin.Context) {
	var users []models.User
	if err := config.GetDB().Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch users",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"count":   len(users),
		"data":    users,
	})
}

// GetUser handles GET /api/v1/auth/users/:id - fetches one user (admin only)
func GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid user id",
			},
		})
		return
	}

	var user models.User
	if err := config.GetDB().First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    user,
	})
}

// DeleteUser handles DELETE /api/v1/auth/users/:id - removes a user (admin only)
func DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid user id",
			},
		})
		return
	}

	db := config.GetDB()
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User not found",
			},
		})
		return
	}

	if err := db.Delete(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete user",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{},
	})
}

// GetStats handles GET /api/v1/auth/stats - aggregate record counts (admin only)
func GetStats(c *gin.Context) {
	db := config.GetDB()

	var userCount, medicineCount, orderCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		statsError(c)
		return
	}
	if err := db.Model(&models.Medicine{}).Count(&medicineCount).Error; err != nil {
		statsError(c)
		return
	}
	if err := db.Model(&models.Order{}).Count(&orderCount).Error; err != nil {
		statsError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"users":     userCount,
			"medicines": medicineCount,
			"orders":    orderCount,
		},
	})
}

// sendTokenResponse issues a fresh token pair, persists the refresh token
// against the user (last-issued-wins) and writes the response
func sendTokenResponse(c *gin.Context, user *models.User, statusCode int) {
	tokens := services.NewTokenService(config.GetConfig())

	accessToken, err := tokens.IssueAccessToken(user)
	if err != nil {
		tokenIssueError(c)
		return
	}
	refreshToken, err := tokens.IssueRefreshToken(user)
	if err != nil {
		tokenIssueError(c)
		return
	}

	if err := config.GetDB().Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("refresh_token", refreshToken).Error; err != nil {
		tokenIssueError(c)
		return
	}

	c.JSON(statusCode, gin.H{
		"success":      true,
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func invalidCredentials(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_CREDENTIALS",
			"message": "Invalid credentials",
		},
	})
}

func invalidRefreshToken(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INVALID_REFRESH_TOKEN",
			"message": "Invalid refresh token",
		},
	})
}

func tokenIssueError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "SERVER_ERROR",
			"message": "Failed to issue tokens",
		},
	})
}

func statsError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": "Failed to fetch stats",
		},
	})
}
