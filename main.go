package main

import (
	"log"

	"pairquiz/config"
	"pairquiz/handlers"
	"pairquiz/middleware"
	"pairquiz/models"
	"pairquiz/routes"
	"pairquiz/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database models
	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Game{},
		&models.Player{},
		&models.GameQuestion{},
		&models.Answer{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize Redis
	redisClient := config.InitRedis(cfg)
	gameViewCache := services.NewGameViewCache(redisClient)

	// Initialize services
	authService := services.NewAuthService(db, cfg.JWTSecret)
	questionService := services.NewQuestionService(db)
	gameService := services.NewGameService(db, gameViewCache, cfg.QuestionsPerGame)
	gameQueryService := services.NewGameQueryService(db, gameViewCache)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	questionHandler := handlers.NewQuestionHandler(questionService)
	gameHandler := handlers.NewGameHandler(gameService, gameQueryService)

	// Setup Gin router
	router := gin.Default()

	// Add CORS middleware
	router.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(router, authHandler, questionHandler, gameHandler, cfg.JWTSecret)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
