package database

import (
	"sync"

	"github.com/aknur111/blog-web-site/pkg/logger"
	"github.com/aknur111/blog-web-site/pkg/metrics"

	"go.mongodb.org/mongo-driver/v2/event"
	"go.uber.org/zap"
)

// PoolStats 连接池统计
type PoolStats struct {
	Open             int64 `json:"open"`
	InUse            int64 `json:"in_use"`
	CheckOutFailures int64 `json:"check_out_failures"`
	Cleared          int64 `json:"cleared"`
}

// PoolMonitor tracks driver connection pool events and mirrors them into the
// pool gauges. AlertThreshold > 0 logs a warning each time in-use
// connections reach it.
type PoolMonitor struct {
	metrics        *metrics.MetricsCollector
	alertThreshold int64

	mu    sync.Mutex
	stats PoolStats
}

// NewPoolMonitor 创建连接池监控器
func NewPoolMonitor(collector *metrics.MetricsCollector, alertThreshold int64) *PoolMonitor {
	return &PoolMonitor{metrics: collector, alertThreshold: alertThreshold}
}

// Monitor 返回传给 options.Client().SetPoolMonitor 的回调
func (pm *PoolMonitor) Monitor() *event.PoolMonitor {
	return &event.PoolMonitor{Event: pm.handle}
}

// Stats 当前统计快照
func (pm *PoolMonitor) Stats() PoolStats {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.stats
}

func (pm *PoolMonitor) handle(evt *event.PoolEvent) {
	if evt == nil {
		return
	}

	pm.mu.Lock()
	switch evt.Type {
	case event.ConnectionCreated:
		pm.stats.Open++
	case event.ConnectionClosed:
		pm.stats.Open = max(0, pm.stats.Open-1)
	case event.ConnectionCheckedOut:
		pm.stats.InUse++
	case event.ConnectionCheckedIn:
		pm.stats.InUse = max(0, pm.stats.InUse-1)
	case event.ConnectionCheckOutFailed:
		pm.stats.CheckOutFailures++
	case event.ConnectionPoolCleared:
		pm.stats.Cleared++
	}
	snapshot := pm.stats
	pm.mu.Unlock()

	pm.metrics.RecordPoolEvent(evt.Type)
	pm.metrics.SetPoolConnections(snapshot.Open, snapshot.InUse)

	switch {
	case evt.Type == event.ConnectionCheckOutFailed:
		logger.Log.Warn("mongo connection check out failed",
			zap.String("address", evt.Address),
			zap.String("reason", evt.Reason),
		)
	case evt.Type == event.ConnectionPoolCleared:
		logger.Log.Warn("mongo connection pool cleared", zap.String("address", evt.Address))
	case evt.Type == event.ConnectionCheckedOut && pm.alertThreshold > 0 && snapshot.InUse == pm.alertThreshold:
		logger.Log.Warn("mongo pool usage high",
			zap.Int64("in_use", snapshot.InUse),
			zap.Int64("threshold", pm.alertThreshold),
		)
	}
}
