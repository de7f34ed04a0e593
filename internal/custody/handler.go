package custody

import (
	"errors"
	"net/http"

	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CustodyHandler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *CustodyHandler {
	return &CustodyHandler{
		service: service,
		log:     log,
	}
}

func (h *CustodyHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/checkout", h.Checkout)
	router.POST("/checkin", h.Checkin)
}

func (h *CustodyHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	method, ok := h.resolveMethod(c, req.Method)
	if !ok {
		return
	}

	result, err := h.service.Checkout(req, method)
	if err != nil {
		h.renderCustodyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  result.Message,
		"movement": result.Movement,
		"asset":    result.Asset,
	})
}

func (h *CustodyHandler) Checkin(c *gin.Context) {
	var req models.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	method, ok := h.resolveMethod(c, req.Method)
	if !ok {
		return
	}

	result, err := h.service.CheckIn(req, method)
	if err != nil {
		h.renderCustodyError(c, err)
		return
	}

	response := gin.H{
		"success":  true,
		"message":  result.Message,
		"movement": result.Movement,
		"asset":    result.Asset,
	}
	if result.Issue != nil {
		response["issue"] = result.Issue
	}

	c.JSON(http.StatusOK, response)
}

func (h *CustodyHandler) resolveMethod(c *gin.Context, raw string) (metadata.Method, bool) {
	if raw == "" {
		return metadata.MethodManual, true
	}

	method, err := metadata.NewMethod(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}

	return method, true
}

// Rejected transitions are expected outcomes and map to client errors; only
// store failures are logged and surfaced as a generic 500.
func (h *CustodyHandler) renderCustodyError(c *gin.Context, err error) {
	var notFoundErr *NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	var invalidErr *InvalidTransitionError
	if errors.As(err, &invalidErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":          "Equipment not available (" + invalidErr.Current.String() + ")",
			"current_status": invalidErr.Current,
		})
		return
	}

	var holderErr *WrongHolderError
	if errors.As(err, &holderErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "Equipment is assigned to " + holderErr.Holder,
			"holder": holderErr.Holder,
		})
		return
	}

	h.log.Error("Custody operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Custody operation failed"})
}
