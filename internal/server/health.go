package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const pingTimeout = 2 * time.Second

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// health pings every dependency concurrently and answers 503 with the
// report when any of them fails.
func (a *StudioAPI) health(ctx *gin.Context) {
	results := make([]string, len(a.deps))

	g, gctx := errgroup.WithContext(ctx.Request.Context())
	for i, dep := range a.deps {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, pingTimeout)
			defer cancel()
			if err := dep.Pinger.Ping(pctx); err != nil {
				requestLog(ctx, a.log).Warn("dependency unhealthy", zap.String("service", dep.Name), zap.Error(err))
				results[i] = "unhealthy: " + err.Error()
				return nil
			}
			results[i] = statusHealthy
			return nil
		})
	}
	_ = g.Wait()

	overall := statusHealthy
	services := gin.H{"application": statusHealthy}
	for i, dep := range a.deps {
		services[dep.Name] = results[i]
		if results[i] != statusHealthy {
			overall = statusDegraded
		}
	}

	code := http.StatusOK
	if overall != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, gin.H{
		"status":      overall,
		"timestamp":   a.now().UTC().Format(time.RFC3339),
		"version":     a.cfg.Version,
		"environment": a.cfg.Env,
		"services":    services,
	})
}

func (a *StudioAPI) simpleHealth(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "message": "StudioHub API is running"})
}
