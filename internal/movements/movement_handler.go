package movements

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultRecentLimit = 10

type MovementsHandler struct {
	repository MovementRepository
	log        *zap.Logger
}

func NewHandler(r MovementRepository, log *zap.Logger) *MovementsHandler {
	return &MovementsHandler{
		repository: r,
		log:        log,
	}
}

func (h *MovementsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/movements", h.SearchMovements)
	router.GET("/movements/recent", h.GetRecentMovements)
	router.GET("/assets/:id/movements", h.GetMovementsByAsset)
	router.GET("/users/:id/movements", h.GetMovementsByUser)
}

func (h *MovementsHandler) SearchMovements(c *gin.Context) {
	movements, err := h.repository.Search(c.Query("search"), c.Query("type"))
	if err != nil {
		h.log.Error("Failed to search movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}

func (h *MovementsHandler) GetRecentMovements(c *gin.Context) {
	limit := defaultRecentLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	movements, err := h.repository.GetRecent(limit)
	if err != nil {
		h.log.Error("Failed to get recent movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain recent movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}

func (h *MovementsHandler) GetMovementsByAsset(c *gin.Context) {
	movements, err := h.repository.GetByAsset(c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get asset movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain asset movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}

func (h *MovementsHandler) GetMovementsByUser(c *gin.Context) {
	movements, err := h.repository.GetByUser(c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get user movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain user movements"})
		return
	}

	c.JSON(http.StatusOK, movements)
}
