package users

import (
	"errors"
	"net/http"

	custom_error "divemanager/pkg/errors"
	"divemanager/pkg/models"
	"divemanager/pkg/roles"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UsersHandler struct {
	repository UserRepository
	log        *zap.Logger
}

func NewHandler(r UserRepository, log *zap.Logger) *UsersHandler {
	return &UsersHandler{
		repository: r,
		log:        log,
	}
}

func (h *UsersHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/users", h.CreateUser)
	router.GET("/users", h.GetUserList)
	router.GET("/users/:id", h.GetUser)
	router.PATCH("/users/:id", h.UpdateUser)
	router.DELETE("/users/:id", h.DeleteUser)
}

func (h *UsersHandler) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !roles.Role(req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role: " + req.Role})
		return
	}

	user, err := h.repository.PersistUser(req)
	if err != nil {
		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": uniqueErr.Error()})
			return
		}
		h.log.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *UsersHandler) GetUserList(c *gin.Context) {
	users, err := h.repository.GetUsers(c.Query("search"))
	if err != nil {
		h.log.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of users"})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UsersHandler) GetUser(c *gin.Context) {
	user, err := h.repository.GetUser(c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) UpdateUser(c *gin.Context) {
	userID := c.Param("id")

	var req models.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.Role != nil && !roles.Role(*req.Role).IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role: " + *req.Role})
		return
	}

	user, err := h.repository.GetUser(userID)
	if err != nil {
		h.log.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if !req.HasChanges() {
		c.JSON(http.StatusOK, user)
		return
	}

	if err := h.repository.UpdateUser(userID, req); err != nil {
		var uniqueErr *custom_error.UniqueViolationError
		if errors.As(err, &uniqueErr) {
			c.JSON(http.StatusConflict, gin.H{"error": uniqueErr.Error()})
			return
		}
		h.log.Error("Failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	updatedUser, err := h.repository.GetUser(userID)
	if err != nil {
		h.log.Error("Failed to get updated user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get updated user"})
		return
	}

	c.JSON(http.StatusOK, updatedUser)
}

// DeleteUser refuses to remove a member who appears in the movement ledger.
// Disable the account with is_active instead.
func (h *UsersHandler) DeleteUser(c *gin.Context) {
	userID := c.Param("id")

	user, err := h.repository.GetUser(userID)
	if err != nil {
		h.log.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	referenced, err := h.repository.IsReferencedByMovements(userID)
	if err != nil {
		h.log.Error("Failed to check user movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if referenced {
		c.JSON(http.StatusConflict, gin.H{
			"error": "User has movement history and cannot be deleted; deactivate the account instead",
		})
		return
	}

	if err := h.repository.DeleteUser(userID); err != nil {
		h.log.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}
