package assets

import (
	"errors"
	"net/http"

	custom_error "divemanager/pkg/errors"
	"divemanager/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssetRepository is the store surface the HTTP handlers need; the custody
// service reaches deeper (conditional status swaps) through its own interfaces.
type AssetRepository interface {
	PersistAsset(req models.CreateAssetRequest) (*models.Asset, error)
	GetAsset(id string) (*models.Asset, error)
	GetAssetsBy(filter models.AssetFilter) ([]models.Asset, error)
	UpdateAsset(id string, changes models.UpdateAssetRequest) error
	AddTagCode(id string, code string) error
}

type AssetsHandler struct {
	repository AssetRepository
	log        *zap.Logger
}

func NewHandler(r AssetRepository, log *zap.Logger) *AssetsHandler {
	return &AssetsHandler{
		repository: r,
		log:        log,
	}
}

func (h *AssetsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/assets", h.CreateAsset)
	router.GET("/assets", h.GetAssetList)
	router.GET("/assets/:id", h.GetAsset)
	router.PATCH("/assets/:id", h.UpdateAsset)
	router.POST("/assets/:id/tags", h.AddTagCode)
}

func (h *AssetsHandler) CreateAsset(c *gin.Context) {
	var req models.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.repository.PersistAsset(req)
	if err != nil {
		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": uniqueErr.Error()})
			return
		}
		h.log.Error("Failed to create asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create asset"})
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetsHandler) GetAssetList(c *gin.Context) {
	var filter models.AssetFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters", "details": err.Error()})
		return
	}

	assets, err := h.repository.GetAssetsBy(filter)
	if err != nil {
		h.log.Error("Failed to list assets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of assets"})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetsHandler) GetAsset(c *gin.Context) {
	asset, err := h.repository.GetAsset(c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get asset"})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetsHandler) UpdateAsset(c *gin.Context) {
	assetID := c.Param("id")

	var req models.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.repository.GetAsset(assetID)
	if err != nil {
		h.log.Error("Failed to get asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get asset"})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	if !req.HasChanges() {
		c.JSON(http.StatusOK, asset)
		return
	}

	if err := h.repository.UpdateAsset(assetID, req); err != nil {
		h.log.Error("Failed to update asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update asset"})
		return
	}

	updatedAsset, err := h.repository.GetAsset(assetID)
	if err != nil {
		h.log.Error("Failed to get updated asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated asset"})
		return
	}

	c.JSON(http.StatusOK, updatedAsset)
}

func (h *AssetsHandler) AddTagCode(c *gin.Context) {
	assetID := c.Param("id")

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.repository.GetAsset(assetID)
	if err != nil {
		h.log.Error("Failed to get asset", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get asset"})
		return
	}
	if asset == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
		return
	}

	if err := h.repository.AddTagCode(assetID, req.Code); err != nil {
		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": uniqueErr.Error()})
			return
		}
		h.log.Error("Failed to add tag code", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add tag code"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Tag code registered", "code": req.Code})
}
