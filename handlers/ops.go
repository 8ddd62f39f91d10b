package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// RegisterOps mounts /health, /ready and /metrics. /ready returns 503 while
// any check fails.
func RegisterOps(r *gin.Engine, gatherer prometheus.Gatherer, checks map[string]ReadinessCheck) {
	startTime := time.Now()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		ready := true
		deps := make(map[string]bool, len(checks))
		for _, name := range names {
			ok := checks[name](ctx) == nil
			deps[name] = ok
			ready = ready && ok
		}

		status, body := http.StatusOK, "ready"
		if !ready {
			status, body = http.StatusServiceUnavailable, "not_ready"
		}
		c.JSON(status, gin.H{"status": body, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
