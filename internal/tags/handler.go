package tags

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TagsHandler struct {
	resolver *Resolver
	log      *zap.Logger
}

func NewHandler(resolver *Resolver, log *zap.Logger) *TagsHandler {
	return &TagsHandler{
		resolver: resolver,
		log:      log,
	}
}

func (h *TagsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/scan/:code", h.ResolveTag)
}

func (h *TagsHandler) ResolveTag(c *gin.Context) {
	resolution, err := h.resolver.Resolve(c.Param("code"))
	if err != nil {
		h.log.Error("Failed to resolve tag code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve tag code"})
		return
	}
	if resolution == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag code not recognized"})
		return
	}

	c.JSON(http.StatusOK, resolution)
}
