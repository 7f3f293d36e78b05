package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pollhub-dev/pollhub/internal/handlers"
	"github.com/pollhub-dev/pollhub/internal/middleware"
	"github.com/pollhub-dev/pollhub/internal/store"
	"github.com/pollhub-dev/pollhub/internal/types"
)

func NewRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	s := store.New(db)

	authHandler := handlers.NewAuthHandler(db)
	pollHandler := handlers.NewPollHandler(s)
	voteHandler := handlers.NewVoteHandler(s)
	categoryHandler := handlers.NewCategoryHandler(s)
	streamHandler := handlers.NewStreamHandler(s)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/polls/:poll_id", streamHandler.Watch)

		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.RequireAuth(db), authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(db), authHandler.Me)
			auth.PATCH("/me", middleware.RequireAuth(db), authHandler.Update)
			auth.DELETE("/me", middleware.RequireAuth(db), authHandler.Delete)
		}

		categories := api.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.POST("", middleware.RequireAuth(db), categoryHandler.Create)
		}

		polls := api.Group("/polls")
		{
			// Reads are public; a valid token adds viewer vote state.
			polls.GET("", middleware.OptionalAuth(db), pollHandler.List)
			polls.GET("/:poll_id", middleware.OptionalAuth(db), pollHandler.Get)

			polls.POST("", middleware.RequireAuth(db), pollHandler.Create)
			polls.PATCH("/:poll_id", middleware.RequireAuth(db), pollHandler.Update)
			polls.DELETE("/:poll_id", middleware.RequireAuth(db), pollHandler.Delete)

			polls.POST("/:poll_id/votes", middleware.RequireAuth(db), voteHandler.Cast)
			polls.DELETE("/:poll_id/votes", middleware.RequireAuth(db), voteHandler.Remove)
		}
	}

	return r
}
