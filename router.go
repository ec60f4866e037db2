package main

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/controllers"
	"github.com/quickmeds/pharmacy-api/middleware"
	"github.com/quickmeds/pharmacy-api/models"
)

// SetupRouter builds the full route table. Split from main so the
// integration tests can drive the real routes.
func SetupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.Default())
	router.Use(middleware.Metrics())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	protect := middleware.Protect(cfg)
	adminOnly := middleware.Authorize(models.RoleAdmin)
	staffOnly := middleware.Authorize(models.RoleDoctor, models.RoleAdmin)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/uploads/:filename", controllers.GetUploadedImage)

		auth := v1.Group("/auth")
		{
			auth.POST("/register", controllers.Register)
			auth.POST("/login", controllers.Login)
			auth.POST("/refresh", controllers.Refresh)
			auth.GET("/me", protect, controllers.Me)
			auth.GET("/users", protect, adminOnly, controllers.GetUsers)
			auth.GET("/users/:id", protect, adminOnly, controllers.GetUser)
			auth.DELETE("/users/:id", protect, adminOnly, controllers.DeleteUser)
			auth.GET("/stats", protect, adminOnly, controllers.GetStats)
		}

		medicines := v1.Group("/medicines")
		{
			medicines.GET("", controllers.GetMedicines)
			medicines.GET("/:id", controllers.GetMedicine)
			medicines.POST("", protect, adminOnly, controllers.CreateMedicine)
			medicines.PUT("/:id", protect, adminOnly, controllers.UpdateMedicine)
			medicines.DELETE("/:id", protect, adminOnly, controllers.DeleteMedicine)
			medicines.PUT("/:id/photo", protect, adminOnly, controllers.UploadMedicinePhoto)
		}

		prescriptions := v1.Group("/prescriptions", protect)
		{
			prescriptions.GET("", controllers.GetPrescriptions)
			prescriptions.POST("", controllers.UploadPrescription)
			prescriptions.PUT("/:id/review", staffOnly, controllers.ReviewPrescription)
		}

		orders := v1.Group("/orders", protect)
		{
			orders.GET("", controllers.GetOrders)
			orders.POST("", controllers.CreateOrder)
			orders.PUT("/:id/status", staffOnly, controllers.UpdateOrderStatus)
		}
	}

	return router
}

// healthCheck reports liveness and database connectivity
func healthCheck(c *gin.Context) {
	db := config.GetDB()
	if db != nil {
		if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_CONNECTION_ERROR",
					"message": "Database connection failed",
				},
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Online Pharmacy API is running",
	})
}
