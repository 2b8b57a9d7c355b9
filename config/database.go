package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/parent-pal/api-go/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dsnFromEnv prefers a full DATABASE_URL and falls back to the
// individual DB_* variables.
func dsnFromEnv() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}

	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))
}

func ConnectDatabase() (*gorm.DB, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return gorm.Open(postgres.Open(dsnFromEnv()), &gorm.Config{})
}

func InitDB() *gorm.DB {
	db, err := ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto Migrate models
	db.AutoMigrate(&models.User{}, &models.RefreshToken{}, &models.Follow{}, &models.FollowRequest{},
		&models.Sitter{}, &models.Product{}, &models.Favorite{}, &models.ImportJob{}, &models.ActivityLog{})

	// AutoMigrate can't express a partial index. This one backs the
	// "at most one pending request per pair" invariant; without it two
	// concurrent follow requests could both pass the check-then-insert.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_follow_requests_one_pending
		ON follow_requests (requester_id, requestee_id) WHERE status = 'pending'`).Error; err != nil {
		log.Fatal("Failed to create pending follow request index:", err)
	}

	return db
}
