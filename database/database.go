package database

import (
	"fmt"
	"log"

	"github.com/Monikarana27/ChatBud/config"
	"github.com/Monikarana27/ChatBud/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect establishes a connection to the database
func Connect(cfg *config.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPass, cfg.DBName, cfg.DBPort, cfg.Timezone)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	log.Println("Database connection established")
	return db
}

// Migrate automatically migrates the database schema
func Migrate(db *gorm.DB) {
	if err := db.AutoMigrate(&models.User{}, &models.Room{}, &models.Message{}, &models.ActiveSession{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	log.Println("Database migration completed")
}
