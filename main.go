package main

import (
	"log"

	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/models"
	"github.com/quickmeds/pharmacy-api/services"
)

func main() {
	log.Println("Starting Online Pharmacy API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := config.ConnectDatabase(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.Medicine{},
		&models.Prescription{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	if _, err := services.InitFileStorage(cfg); err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}
	log.Printf("File storage backend: %s", cfg.StorageBackend)

	router := SetupRouter(cfg)

	addr := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
