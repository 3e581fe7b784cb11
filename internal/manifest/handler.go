package manifest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the context manifest
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new manifest handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers context routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	ctx := router.Group("/context")
	{
		ctx.GET("/manifest", h.getManifest)
		ctx.PUT("/documents", h.storeDocument)
	}
}

func (h *Handler) getManifest(c *gin.Context) {
	m, err := h.service.GetManifest(c.Request.Context())
	if errors.Is(err, ErrNoContext) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("Failed to compute manifest", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, m)
}

func (h *Handler) storeDocument(c *gin.Context) {
	var doc ContextDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.StoreDocument(c.Request.Context(), &doc); err != nil {
		h.logger.Error("Failed to store context document", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "stored"})
}
