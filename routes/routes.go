package routes

import (
	"net/http"

	"pairquiz/handlers"
	"pairquiz/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	questionHandler *handlers.QuestionHandler,
	gameHandler *handlers.GameHandler,
	jwtSecret string,
) {
	// API routes
	api := router.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(jwtSecret))
		{
			// User profile
			protected.GET("/auth/profile", authHandler.GetProfile)

			// Question bank routes
			questions := protected.Group("/questions")
			{
				questions.GET("", questionHandler.GetQuestions)
				questions.POST("", questionHandler.CreateQuestion)
				questions.GET("/:id", questionHandler.GetQuestionByID)
				questions.PUT("/:id", questionHandler.UpdateQuestion)
				questions.PUT("/:id/publish", questionHandler.PublishQuestion)
				questions.DELETE("/:id", questionHandler.DeleteQuestion)
			}

			// Pair game routes
			pairs := protected.Group("/pairs")
			{
				pairs.POST("/connection", gameHandler.Connect)
				pairs.POST("/my-current/answers", gameHandler.SubmitAnswer)
				pairs.GET("/my-current", gameHandler.GetCurrentGame)
				pairs.GET("/my", gameHandler.GetMyGames)
				pairs.GET("/:id", gameHandler.GetGameByID)
			}
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
