package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 数据库指标
	dbQueryDuration *prometheus.HistogramVec
	dbQueryTotal    *prometheus.CounterVec
	dbErrorsTotal   *prometheus.CounterVec

	// 存储连通性 (1 = ping ok)
	storeUp prometheus.Gauge

	// 连接池
	dbPoolConnections *prometheus.GaugeVec
	dbPoolEventsTotal *prometheus.CounterVec
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector returns the process-wide collector registered on the
// default Prometheus registry.
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)

	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		dbQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "db_query_duration_seconds",
				Help:    "Document store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "collection"},
		),

		dbQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_queries_total",
				Help: "Total number of document store operations",
			},
			[]string{"operation", "collection", "status"},
		),

		dbErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_errors_total",
				Help: "Total number of document store errors",
			},
			[]string{"operation", "error_type"},
		),

		storeUp: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "store_up",
				Help: "Whether the last document store ping succeeded",
			},
		),

		dbPoolConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "db_pool_connections",
				Help: "Document store pool connections by state",
			},
			[]string{"state"},
		),

		dbPoolEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "db_pool_events_total",
				Help: "Total number of driver connection pool events",
			},
			[]string{"event"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	if responseSize > 0 {
		m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
	}
}

// RecordDBQuery 记录数据库操作指标
func (m *MetricsCollector) RecordDBQuery(operation, collection string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	m.dbQueryTotal.WithLabelValues(operation, collection, status).Inc()
	m.dbQueryDuration.WithLabelValues(operation, collection).Observe(duration.Seconds())

	if !success {
		m.dbErrorsTotal.WithLabelValues(operation, "query_error").Inc()
	}
}

// RecordDBError 记录数据库错误
func (m *MetricsCollector) RecordDBError(operation, errorType string) {
	m.dbErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// SetStoreUp records the outcome of the latest ping.
func (m *MetricsCollector) SetStoreUp(up bool) {
	if up {
		m.storeUp.Set(1)
		return
	}
	m.storeUp.Set(0)
}

// SetPoolConnections 记录连接池当前连接数
func (m *MetricsCollector) SetPoolConnections(open, inUse int64) {
	m.dbPoolConnections.WithLabelValues("open").Set(float64(open))
	m.dbPoolConnections.WithLabelValues("in_use").Set(float64(inUse))
}

// RecordPoolEvent 记录连接池事件
func (m *MetricsCollector) RecordPoolEvent(eventType string) {
	m.dbPoolEventsTotal.WithLabelValues(eventType).Inc()
}
