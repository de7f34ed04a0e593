package issues

import (
	"errors"
	"net/http"

	custom_error "divemanager/pkg/errors"
	"divemanager/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type IssuesHandler struct {
	repository IssueRepository
	log        *zap.Logger
}

func NewHandler(r IssueRepository, log *zap.Logger) *IssuesHandler {
	return &IssuesHandler{
		repository: r,
		log:        log,
	}
}

func (h *IssuesHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/issues", h.CreateIssue)
	router.GET("/issues", h.GetIssueList)
	router.GET("/issues/:id", h.GetIssue)
	router.PATCH("/issues/:id/status", h.UpdateIssueStatus)
	router.GET("/assets/:id/issues", h.GetIssuesByAsset)
}

func (h *IssuesHandler) CreateIssue(c *gin.Context) {
	var req models.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	issue, err := h.repository.PersistIssue(req)
	if err != nil {
		var fkErr *custom_error.ForeignKeyViolationError
		if errors.As(err, &fkErr) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Asset not found"})
			return
		}
		h.log.Error("Failed to create issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	c.JSON(http.StatusCreated, issue)
}

func (h *IssuesHandler) GetIssueList(c *gin.Context) {
	issues, err := h.repository.GetIssues(c.Query("status"))
	if err != nil {
		h.log.Error("Failed to list issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}

func (h *IssuesHandler) GetIssue(c *gin.Context) {
	issue, err := h.repository.GetIssue(c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get issue"})
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	c.JSON(http.StatusOK, issue)
}

func (h *IssuesHandler) UpdateIssueStatus(c *gin.Context) {
	issueID := c.Param("id")

	var req models.UpdateIssueStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	issue, err := h.repository.GetIssue(issueID)
	if err != nil {
		h.log.Error("Failed to get issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get issue"})
		return
	}
	if issue == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		return
	}

	if err := h.repository.UpdateStatus(issueID, req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updatedIssue, err := h.repository.GetIssue(issueID)
	if err != nil {
		h.log.Error("Failed to get updated issue", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated issue"})
		return
	}

	c.JSON(http.StatusOK, updatedIssue)
}

func (h *IssuesHandler) GetIssuesByAsset(c *gin.Context) {
	issues, err := h.repository.GetByAsset(c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get asset issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain asset issues"})
		return
	}

	c.JSON(http.StatusOK, issues)
}
