package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// LivenessHandler answers 200 while the process can serve requests.
func LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.JSON(http.StatusOK, gin.H{"status": StatusUp})
	}
}

// ReadinessHandler answers 503 when any upstream the gateway depends on is down.
func ReadinessHandler(registry *Registry, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		response := registry.CheckAll(ctx)

		status := http.StatusOK
		if response.Status == StatusDown {
			status = http.StatusServiceUnavailable
			for _, check := range response.Checks {
				if check.Status == StatusDown {
					slog.WarnContext(ctx, "readiness check failed",
						slog.String("component", check.Name),
						slog.String("message", check.Message),
					)
				}
			}
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(status, response)
	}
}
