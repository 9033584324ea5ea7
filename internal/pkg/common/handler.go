package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// PingFunc 检查存储是否可用
type PingFunc func(ctx context.Context) error

// healthTimeout 健康检查的 ping 上限
const healthTimeout = 3 * time.Second

// Health 健康检查
// @Summary 健康检查
// @Tags Common
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 503 {object} response.Response
// @Router /health [get]
func Health(ping PingFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		if err := ping(ctx); err != nil {
			logger.Log.Warn("health check failed", zap.Error(err))
			response.Error(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable, "document store unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

// Metrics Prometheus 指标
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
