package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	TraceHeader = "X-Request-ID"
	TraceKey    = "traceID"
)

// TraceMiddleware 添加请求追踪ID，优先沿用调用方传入的值
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceKey, traceID)
		c.Header(TraceHeader, traceID)

		c.Next()
	}
}
