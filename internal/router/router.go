package router

import (
	"fmt"
	"log"
	"net/http"

	"github.com/briandvp/brian-blog/internal/handlers"
	"github.com/briandvp/brian-blog/internal/middleware"
	"github.com/briandvp/brian-blog/internal/models"
	"github.com/briandvp/brian-blog/internal/repositories"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// HTTPErrorHandler renders every error as {"error": "<message>"}. Unexpected
// failures are logged and surface as a generic 500 so callers never see
// internal diagnostics.
func HTTPErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}
	if code >= http.StatusInternalServerError {
		log.Printf("request failed: %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
		message = "Internal server error"
	}

	if !c.Response().Committed {
		if err := c.JSON(code, echo.Map{"error": message}); err != nil {
			log.Printf("failed to write error response: %v", err)
		}
	}
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, db *gorm.DB, jwtSecret string) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)

	// Admin login
	authGroup := e.Group("/auth")
	authHandler := handlers.NewAuthHandler(userRepo, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	api := e.Group("")
	adminAuth := middleware.JWTAuthMiddleware(jwtSecret)

	// Post routes: public reads, JWT-guarded mutations
	postHandler := handlers.NewPostHandler(postRepo, userRepo)
	postHandler.RegisterPostRoutes(api, adminAuth)

	// Comment routes: public submission and listing
	commentHandler := handlers.NewCommentHandler(commentRepo, postRepo)
	commentHandler.RegisterCommentRoutes(api)

	// Moderation routes
	moderationHandler := handlers.NewModerationHandler(commentRepo)
	moderationHandler.RegisterModerationRoutes(api)

	log.Println("All routes configured.")
}
