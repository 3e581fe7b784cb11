package metrics

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"launchpad/client-portal/client-portal-backend/internal/export"
)

// Handler handles HTTP requests for dashboard metric endpoints
type Handler struct {
	service  *Service
	exporter *export.SessionExporter
	logger   *zap.Logger
}

// NewHandler creates a new metrics handler
func NewHandler(service *Service, exporter *export.SessionExporter, logger *zap.Logger) *Handler {
	return &Handler{service: service, exporter: exporter, logger: logger}
}

// RegisterRoutes registers dashboard metric routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	dashboard := router.Group("/dashboard")
	{
		dashboard.GET("/metrics", h.getMetrics)
		dashboard.GET("/sessions", h.getSessions)
		dashboard.GET("/sessions/export", h.exportSessions)
	}
}

func (h *Handler) getMetrics(c *gin.Context) {
	m, err := h.service.GetDashboardMetrics(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute dashboard metrics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *Handler) getSessions(c *gin.Context) {
	list, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list sessions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) exportSessions(c *gin.Context) {
	list, err := h.service.ListSessions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list sessions for export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]export.SessionRow, 0, len(list.Sessions))
	for _, s := range list.Sessions {
		rows = append(rows, export.SessionRow{
			SessionID:            s.SessionID,
			WorkspaceID:          s.WorkspaceID,
			ClientName:           s.ClientName,
			CompletionPercentage: s.CompletionPercentage,
			CurrentPhase:         s.CurrentPhase,
			LastActivity:         s.LastActivity,
			Status:               s.Status,
			StartedAt:            s.StartedAt,
		})
	}

	format := c.DefaultQuery("format", "csv")
	result, err := h.exporter.Export(rows, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+result.Filename)
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
