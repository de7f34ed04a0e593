package routes

import (
	"net/http"

	"divemanager/internal/container"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterAPIRoutes(router *gin.Engine, c *container.Container) {
	api := router.Group("/api")

	c.AssetsHandler.RegisterRoutes(api)
	c.UsersHandler.RegisterRoutes(api)
	c.MovementsHandler.RegisterRoutes(api)
	c.IssuesHandler.RegisterRoutes(api)
	c.CustodyHandler.RegisterRoutes(api)
	c.TagsHandler.RegisterRoutes(api)
	c.DashboardHandler.RegisterRoutes(api)
}

func RegisterUtilityRoutes(router *gin.Engine, log *zap.Logger) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		log.Debug("Health check successful")
	})
}
