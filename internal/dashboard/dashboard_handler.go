package dashboard

import (
	"net/http"

	"divemanager/pkg/metadata"
	"divemanager/pkg/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const recentMovementLimit = 5

type AssetCounter interface {
	CountByStatus() (map[metadata.AssetStatus]int, error)
}

type UserLister interface {
	GetUsers(search string) ([]models.User, error)
}

type MovementReader interface {
	GetRecent(limit int) ([]models.Movement, error)
}

type IssueCounter interface {
	CountOpen() (int, error)
}

type DashboardHandler struct {
	assets    AssetCounter
	users     UserLister
	movements MovementReader
	issues    IssueCounter
	log       *zap.Logger
}

func NewHandler(assets AssetCounter, users UserLister, movements MovementReader, issues IssueCounter, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		assets:    assets,
		users:     users,
		movements: movements,
		issues:    issues,
		log:       log,
	}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/stats", h.GetStats)
}

// GetStats is a read-only dashboard aggregate; it holds no locks and may be
// stale by one transition at worst.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	statusCounts, err := h.assets.CountByStatus()
	if err != nil {
		h.log.Error("Failed to count assets", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	users, err := h.users.GetUsers("")
	if err != nil {
		h.log.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	activeUsers := 0
	for _, user := range users {
		if user.IsActive {
			activeUsers++
		}
	}

	recentMovements, err := h.movements.GetRecent(recentMovementLimit)
	if err != nil {
		h.log.Error("Failed to get recent movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	openIssues, err := h.issues.CountOpen()
	if err != nil {
		h.log.Error("Failed to count open issues", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute statistics"})
		return
	}

	totalAssets := 0
	for _, count := range statusCounts {
		totalAssets += count
	}

	c.JSON(http.StatusOK, gin.H{
		"total_assets":       totalAssets,
		"available_assets":   statusCounts[metadata.StatusAvailable],
		"checked_out_assets": statusCounts[metadata.StatusCheckedOut],
		"maintenance_assets": statusCounts[metadata.StatusMaintenance],
		"retired_assets":     statusCounts[metadata.StatusRetired],
		"defective_assets":   statusCounts[metadata.StatusDefective],
		"recent_movements":   recentMovements,
		"open_issues":        openIssues,
		"total_users":        len(users),
		"active_users":       activeUsers,
	})
}
