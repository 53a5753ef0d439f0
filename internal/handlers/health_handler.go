package handlers

import (
	"net/http"

	"github.com/EyalShefer/ai-lms-system-sub004/internal/repositories"
	"github.com/EyalShefer/ai-lms-system-sub004/internal/utils"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	BaseHandler
	repo repositories.Repository
}

func NewHealthHandler(repo repositories.Repository, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler: NewBaseHandler(logger),
		repo:        repo,
	}
}

// HealthCheck reports service liveness and store reachability
// @Summary Health check
// @Description Returns service health, probing the backing store
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	if err := h.repo.Ping(c.Request.Context()); err != nil {
		h.LogError(c, err, "Health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "lms-player-core",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "lms-player-core",
	})
}
