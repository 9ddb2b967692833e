package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/leave-api/pkg/errors"
	"github.com/noah-isme/leave-api/pkg/response"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// SchemaEnsurer applies the database schema when it has not been applied yet.
type SchemaEnsurer interface {
	Ensure(ctx context.Context) error
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics http.Handler
	db      Pinger
	schema  SchemaEnsurer
	logger  *zap.Logger
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics http.Handler, db Pinger, logger *zap.Logger) *MetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsHandler{metrics: metrics, db: db, logger: logger}
}

// WithSchema makes Ready apply the schema once the database answers.
func (h *MetricsHandler) WithSchema(schema SchemaEnsurer) *MetricsHandler {
	h.schema = schema
	return h
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "metrics not configured"))
		return
	}
	h.metrics.ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"status": "ok"}, "")
}

// Ready reports whether the database answers a ping and carries the schema.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.db == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "database not configured"))
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "database unreachable"))
		return
	}
	if h.schema != nil {
		if err := h.schema.Ensure(ctx); err != nil {
			h.logger.Warn("schema not ready", zap.Error(err))
			response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "database schema not ready"))
			return
		}
	}
	response.JSON(c, http.StatusOK, gin.H{"status": "ready", "database": "ok"}, "")
}
