package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/auth"
)

// Handler handles workspace settings endpoints
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new settings handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers settings routes. All of them operate on the
// authenticated caller's workspace.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/workspace")
	{
		group.GET("/settings", h.getSettings)
		group.PUT("/settings", h.updateSettings)
		group.PUT("/plan", h.selectPlan)
	}
}

func (h *Handler) getSettings(c *gin.Context) {
	workspaceID := c.MustGet(auth.ContextWorkspaceID).(uuid.UUID)

	settings, err := h.service.GetSettings(c.Request.Context(), workspaceID)
	if err != nil {
		h.logger.Error("Failed to get settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *Handler) updateSettings(c *gin.Context) {
	workspaceID := c.MustGet(auth.ContextWorkspaceID).(uuid.UUID)

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.service.UpdateSettings(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.logger.Error("Failed to update settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (h *Handler) selectPlan(c *gin.Context) {
	workspaceID := c.MustGet(auth.ContextWorkspaceID).(uuid.UUID)

	var req SelectPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.service.SelectPlan(c.Request.Context(), workspaceID, req.PlanID)
	if err != nil {
		if errors.Is(err, ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to change plan", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to change plan"})
		return
	}

	c.JSON(http.StatusOK, settings)
}
