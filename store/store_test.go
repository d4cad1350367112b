package store

import (
	"testing"

	"github.com/Monikarana27/ChatBud/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	// Full-cost hashing makes the fixtures crawl.
	models.BcryptCost = bcrypt.MinCost
}

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{}, &models.ActiveSession{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}
