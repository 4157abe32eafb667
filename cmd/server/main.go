package main

import (
	"log"

	"github.com/briandvp/brian-blog/internal/router"
	"github.com/briandvp/brian-blog/pkg/config"
	"github.com/briandvp/brian-blog/validators"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Validator and error envelope
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = router.HTTPErrorHandler

	// Setup routes and dependencies
	router.SetupRoutes(e, db, cfg.JWTSecret)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
