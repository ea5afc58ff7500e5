package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readyTimeout = 2 * time.Second

// Pinger is a dependency that must answer before the service reports ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandlers struct {
	logger    *slog.Logger
	startedAt time.Time
	deps      map[string]Pinger
}

func NewHealthHandlers(logger *slog.Logger, deps map[string]Pinger) *HealthHandlers {
	return &HealthHandlers{
		logger:    logger.With("component", "health"),
		startedAt: time.Now(),
		deps:      deps,
	}
}

func (that *HealthHandlers) Ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func (that *HealthHandlers) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(that.startedAt).Round(time.Second).String(),
	})
}

// Readyz reports 503 while any dependency fails to answer.
func (that *HealthHandlers) Readyz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(that.deps))

	for name, dep := range that.deps {
		if err := dep.Ping(ctx); err != nil {
			that.logger.Warn("dependency is not ready", "dependency", name, "error", err)
			checks[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	c.JSON(status, gin.H{"checks": checks})
}
