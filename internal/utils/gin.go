package utils

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewO11yGin returns a gin engine with tracing, request logging and request
// metrics. The prometheus middleware also serves the default registry on
// /metrics. A nil prom creates a fresh middleware named after the router.
func NewO11yGin(routerName string, debug bool, prom *ginprometheus.Prometheus) *gin.Engine {
	if debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(routerName))
	router.Use(ginzap.GinzapWithConfig(otelzap.L(), &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		SkipPaths:  []string{"/healthz", "/ready", "/metrics"},
		Context: func(c *gin.Context) []zapcore.Field {
			var fields []zapcore.Field
			if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
				fields = append(fields, zap.String("request_id", requestID))
			}

			if spanCtx := trace.SpanFromContext(c.Request.Context()).SpanContext(); spanCtx.IsValid() {
				fields = append(fields, zap.String("trace_id", spanCtx.TraceID().String()))
				fields = append(fields, zap.String("span_id", spanCtx.SpanID().String()))
			}
			return fields
		},
	}))

	if prom == nil {
		prom = ginprometheus.NewPrometheus(routerName)
	}
	prom.Use(router)

	return router
}
