package testutil

import (
	"testing"
	"time"

	"github.com/marco-deluca/pizza-orders-api/config"
	"github.com/marco-deluca/pizza-orders-api/models"
	"github.com/marco-deluca/pizza-orders-api/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// NewTestConfig returns a configuration suitable for token issuance in tests
func NewTestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:     "sqlite::memory:",
		Port:            "8080",
		GoEnv:           "test",
		JWTSecret:       "test-secret-do-not-use-in-production",
		JWTIssuer:       "pizza-orders-api",
		JWTAudience:     "pizza-orders-api",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	}
}

// SetupTestDB creates a migrated in-memory database and installs it as the
// active database instance.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Order{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// SeedUser creates a user directly in the database with a hashed password
func SeedUser(t *testing.T, db *gorm.DB, username, email, password string, staff bool) models.User {
	t.Helper()

	hash, err := services.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := models.User{
		Username: username,
		Email:    email,
		Password: hash,
		IsActive: true,
		IsStaff:  staff,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user %q: %v", username, err)
	}

	return user
}

// AccessToken mints a real signed access token for the given username
func AccessToken(t *testing.T, cfg *config.Config, username string) string {
	t.Helper()

	token, err := services.IssueAccessToken(cfg, username)
	if err != nil {
		t.Fatalf("Failed to issue access token: %v", err)
	}
	return token
}

// RefreshToken mints a real signed refresh token for the given username
func RefreshToken(t *testing.T, cfg *config.Config, username string) string {
	t.Helper()

	token, err := services.IssueRefreshToken(cfg, username)
	if err != nil {
		t.Fatalf("Failed to issue refresh token: %v", err)
	}
	return token
}
