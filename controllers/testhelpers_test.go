package controllers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quickmeds/pharmacy-api/config"
	"github.com/quickmeds/pharmacy-api/middleware"
	"github.com/quickmeds/pharmacy-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testPassword is the plaintext password used for all test users
const testPassword = "password123"

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// A single connection keeps the in-memory database visible to
	// transactions, which otherwise draw a fresh empty one from the pool.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Medicine{},
		&models.Prescription{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func setupTestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		DatabaseURL:      "sqlite::memory:",
		Port:             "8080",
		GoEnv:            "test",
		JWTSecret:        "test-access-secret",
		JWTExpire:        15 * time.Minute,
		JWTRefreshSecret: "test-refresh-secret",
		JWTRefreshExpire: 7 * 24 * time.Hour,
		StorageBackend:   "disk",
		UploadDir:        t.TempDir(),
		MaxUploadSize:    10 * 1024 * 1024,
	}
	config.SetConfig(cfg)
	return cfg
}

// mockAuthMiddleware injects the given user into the request context the
// same way the real Protect middleware does
func mockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Password: string(hash),
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return &user
}

func createTestMedicine(t *testing.T, db *gorm.DB, name string, price float64, stock int, requiresPrescription bool) *models.Medicine {
	t.Helper()

	medicine := models.Medicine{
		Name:                 name,
		Description:          "Test description for " + name,
		Price:                price,
		Stock:                stock,
		Category:             "painkillers",
		Manufacturer:         "Acme Pharma",
		ExpiryDate:           time.Now().AddDate(2, 0, 0),
		RequiresPrescription: requiresPrescription,
	}
	if err := db.Create(&medicine).Error; err != nil {
		t.Fatalf("Failed to create test medicine: %v", err)
	}
	return &medicine
}

func performJSONRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response body %q: %v", w.Body.String(), err)
	}
	return response
}

func responseErrorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	response := parseResponse(t, w)
	errorData, ok := response["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("Response has no error object: %q", w.Body.String())
	}
	code, _ := errorData["code"].(string)
	return code
}

// createMultipartRequest builds a multipart upload request with a single file field
func createMultipartRequest(t *testing.T, method, path, field, filename string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}
