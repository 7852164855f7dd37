package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health reports liveness of the API and its backing stores.
func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	report := gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}

	if err := h.db.Ping(ctx); err != nil {
		status = http.StatusServiceUnavailable
		report["status"] = "degraded"
		report["postgres"] = err.Error()
	} else {
		report["postgres"] = "ok"
	}

	if err := h.cache.Ping(ctx).Err(); err != nil {
		status = http.StatusServiceUnavailable
		report["status"] = "degraded"
		report["redis"] = err.Error()
	} else {
		report["redis"] = "ok"
	}

	c.JSON(status, report)
}
