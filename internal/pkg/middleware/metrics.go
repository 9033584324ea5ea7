package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/metrics"
	"github.com/aknur111/blog-web-site/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MetricsMiddleware 记录 HTTP 请求指标，endpoint 使用路由模板避免标签爆炸
func MetricsMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			c.Writer.Size(),
		)
	}
}

// RecoveryMiddleware turns a panic into a 500 envelope and counts it.
func RecoveryMiddleware(collector *metrics.MetricsCollector) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		collector.RecordDBError("panic", "recovery")
		logger.Log.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("trace_id", c.GetString(TraceKey)),
		)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "internal server error")
		c.Abort()
	})
}
