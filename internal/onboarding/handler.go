package onboarding

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for onboarding operations
type Handler struct {
	service          *Service
	thresholdPercent int
	logger           *zap.Logger
}

// NewHandler creates a new onboarding handler
func NewHandler(service *Service, thresholdPercent int, logger *zap.Logger) *Handler {
	return &Handler{
		service:          service,
		thresholdPercent: thresholdPercent,
		logger:           logger,
	}
}

// RegisterRoutes registers onboarding routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	sessions := router.Group("/onboarding/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:id", h.getSession)
		sessions.GET("/:id/progress", h.getProgress)
		sessions.GET("/:id/steps/:stepId/can-proceed", h.canProceed)
		sessions.PUT("/:id/steps/:stepId/status", h.updateStepStatus)
		sessions.PATCH("/:id/steps/:stepId/data", h.updateStepData)
		sessions.POST("/:id/finalize", h.finalizeSession)
		sessions.POST("/:id/abandon", h.abandonSession)
	}
}

// CreateSessionRequest is the payload for starting a session
type CreateSessionRequest struct {
	WorkspaceID uuid.UUID `json:"workspaceId" binding:"required"`
	ClientName  string    `json:"clientName" binding:"required"`
}

func (h *Handler) createSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, steps, err := h.service.CreateSession(c.Request.Context(), req.WorkspaceID, req.ClientName)
	if err != nil {
		h.logger.Error("Failed to create session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session, "steps": steps})
}

func (h *Handler) getSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, steps, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session, "steps": steps})
}

func (h *Handler) getProgress(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, steps, err := h.service.GetSession(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	interactive := c.Query("interactive") == "true"
	builder := NewProgressViewBuilder(h.thresholdPercent, interactive)
	store := NewSessionStore(*session, steps)

	var view ProgressView
	if c.Query("view") == "detailed" {
		view = builder.Detailed(store)
	} else {
		view = builder.Compact(store)
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) canProceed(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	stepID, ok := h.stepID(c)
	if !ok {
		return
	}

	allowed, err := h.service.CanProceedToStep(c.Request.Context(), id, stepID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stepId": stepID, "canProceed": allowed})
}

// UpdateStepStatusRequest is the payload for a step status change
type UpdateStepStatusRequest struct {
	Status StepStatus `json:"status" binding:"required"`
}

func (h *Handler) updateStepStatus(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	stepID, ok := h.stepID(c)
	if !ok {
		return
	}

	var req UpdateStepStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	step, err := h.service.UpdateStepStatus(c.Request.Context(), id, stepID, req.Status)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, step)
}

func (h *Handler) updateStepData(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	stepID, ok := h.stepID(c)
	if !ok {
		return
	}

	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	step, err := h.service.UpdateStepData(c.Request.Context(), id, stepID, partial)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, step)
}

func (h *Handler) finalizeSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.service.Finalize(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) abandonSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	session, err := h.service.Abandon(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) stepID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("stepId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid step ID"})
		return 0, false
	}
	return id, true
}

// respondError maps service errors to HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrStepNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrStepLocked), errors.Is(err, ErrBelowThreshold):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Onboarding request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
