package routes

import (
	"net/http"

	"talentlink_backend/internal/handlers"
	"talentlink_backend/internal/logger"
	"talentlink_backend/internal/middleware"
	"talentlink_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Регистрация HTTP API
	api := ginRouter.Group("/api")
	{
		appHandlers.Auth.RegisterRoutes(api)
		appHandlers.User.RegisterRoutes(api)
		appHandlers.Job.RegisterRoutes(api)
		appHandlers.Application.RegisterRoutes(api)
		appHandlers.Contract.RegisterRoutes(api)
		appHandlers.Payment.RegisterRoutes(api)
		appHandlers.Webhook.RegisterRoutes(api)
		appHandlers.Message.RegisterRoutes(api)
		appHandlers.Notification.RegisterRoutes(api)
		appHandlers.AI.RegisterRoutes(api)
		appHandlers.Admin.RegisterRoutes(api)
	}

	// Регистрация WebSocket
	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("", wsHandler.ServeWS)
	}
	logger.Info("WebSocket route /ws registered")
}
