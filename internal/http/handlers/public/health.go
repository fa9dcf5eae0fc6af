package public

import (
	"context"
	"net/http"
	"time"

	"github.com/jewgo-app/jewgo-api/internal/models"

	"github.com/gin-gonic/gin"
)

// Healthz is the bare liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Health reports per-dependency readiness.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	dbStatus := "ok"
	if models.DB == nil {
		dbStatus = "uninitialized"
		healthy = false
	} else if sqlDB, err := models.DB.DB(); err != nil {
		dbStatus = "error"
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "error"
		healthy = false
	}
	checks["database"] = dbStatus

	redisStatus := "disabled"
	if h.Cache.Enabled() {
		redisStatus = "ok"
		if err := h.Cache.Client().Ping(ctx).Err(); err != nil {
			redisStatus = "error"
			healthy = false
		}
	}
	checks["redis"] = redisStatus

	status := http.StatusOK
	overall := "ok"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
