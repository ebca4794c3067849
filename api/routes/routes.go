package routes

import (
	"net/http"

	"github.com/ArowuTest/recyclepoints-backend/internal/config"
	"github.com/ArowuTest/recyclepoints-backend/internal/handlers"
	"github.com/ArowuTest/recyclepoints-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HandlerDependencies holds all handler dependencies for the router
type HandlerDependencies struct {
	RequestHandler    *handlers.RequestHandler
	CollectionHandler *handlers.CollectionHandler
	AccountHandler    *handlers.AccountHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.AllowedHosts))

	// Public routes
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret))
	{
		requests := protected.Group("/requests")
		{
			requests.POST("", deps.RequestHandler.CreateRequest)
			requests.GET("/mine", deps.RequestHandler.ListMine)
			requests.GET("/available", deps.RequestHandler.ListAvailable)
			requests.GET("/:id", deps.RequestHandler.GetRequest)
			requests.PATCH("/:id", deps.RequestHandler.UpdateRequest)
			requests.POST("/:id/cancel", deps.RequestHandler.CancelRequest)
			requests.POST("/:id/accept", deps.CollectionHandler.AcceptRequest)
			requests.POST("/:id/complete", deps.CollectionHandler.CompleteRequest)
		}

		protected.GET("/collections/mine", deps.CollectionHandler.ListMine)

		protected.GET("/categories", deps.AccountHandler.ListCategories)
		protected.GET("/rewards", deps.AccountHandler.ListRewards)
		protected.POST("/rewards/:id/redeem", deps.AccountHandler.RedeemReward)

		me := protected.Group("/me")
		{
			me.GET("/balance", deps.AccountHandler.GetBalance)
			me.GET("/transactions", deps.AccountHandler.ListTransactions)
			me.GET("/notifications", deps.AccountHandler.ListNotifications)
		}
	}

	return router
}
