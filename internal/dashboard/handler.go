package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the aggregated dashboard snapshot
type Handler struct {
	aggregator *Aggregator
	logger     *zap.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(aggregator *Aggregator, logger *zap.Logger) *Handler {
	return &Handler{aggregator: aggregator, logger: logger}
}

// RegisterRoutes registers dashboard summary routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/dashboard/summary", h.getSummary)
}

func (h *Handler) getSummary(c *gin.Context) {
	refresh := c.Query("refresh") == "true"

	var snapshot *Snapshot
	if refresh {
		snapshot = h.aggregator.Refresh(c.Request.Context())
	} else {
		snapshot = h.aggregator.Snapshot(c.Request.Context())
	}

	c.JSON(http.StatusOK, snapshot)
}
