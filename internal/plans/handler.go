package plans

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler serves the plan catalog
type Handler struct{}

// NewHandler creates a new plans handler
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes registers plan routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/plans")
	{
		group.GET("", h.listPlans)
		group.GET("/:id", h.getPlan)
	}
}

func (h *Handler) listPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": All()})
}

func (h *Handler) getPlan(c *gin.Context) {
	plan, err := ByID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, plan)
}
