package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns otelgin followed by a handler that tags the server span.
// The tagger must run inside otelgin's chain since otelgin ends the span
// and restores the original request once its c.Next returns.
func Tracing(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return nil
	}
	return gin.HandlersChain{otelgin.Middleware(cfg.ServiceName), tagSpan}
}

// tagSpan adds the request ID and marks 5xx responses as failed
func tagSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	if id := GetRequestID(c); id != "" && span.IsRecording() {
		span.SetAttributes(attribute.String("request_id", id))
	}

	c.Next()

	if status := c.Writer.Status(); status >= http.StatusInternalServerError && span.IsRecording() {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
