package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/parent-pal/api-go/config"
	"github.com/parent-pal/api-go/routes"
	"github.com/parent-pal/api-go/utils"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db := config.InitDB()

	// Redis is optional; badge counters degrade to DB-only without it
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
		if err := utils.InitRedis(redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB); err != nil {
			log.Printf("Redis unavailable, continuing without it: %v", err)
		}
		defer utils.CloseRedis()
	}

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// CORS covers preflight for every endpoint
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{os.Getenv("WEB_ORIGIN")},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize routes
	routes.SetupRoutes(r, db)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
