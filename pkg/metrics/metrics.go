package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus指标定义
// 教学要点：
// 1. Counter只增不减(请求数、操作数)
// 2. Gauge可增可减(正在处理的请求数)
// 3. Histogram统计分布(耗时)
// 4. 标签基数要可控:path使用路由模板,不使用原始URL
var (
	initOnce sync.Once

	// ===== HTTP层 =====

	// HTTPRequestsTotal HTTP请求总数
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration *prometheus.HistogramVec

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress prometheus.Gauge

	// ===== 应用层 =====

	// CatalogOperationsTotal 目录操作总数(entity/operation/result)
	CatalogOperationsTotal *prometheus.CounterVec

	// CatalogOperationDuration 目录操作耗时
	CatalogOperationDuration *prometheus.HistogramVec

	// ViewCacheRequestsTotal 视图缓存请求(hit/miss/error)
	ViewCacheRequestsTotal *prometheus.CounterVec

	// EventsPublishedTotal 领域事件发布总数
	EventsPublishedTotal *prometheus.CounterVec
)

// 操作结果标签
const (
	ResultSuccess = "success"
	ResultFailure = "failure"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// InitMetrics 初始化指标(可重复调用,只注册一次)
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		CatalogOperationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_operations_total",
				Help: "目录操作总数",
			},
			[]string{"entity", "operation", "result"},
		)

		CatalogOperationDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_operation_duration_seconds",
				Help:    "目录操作耗时（秒）",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"entity", "operation"},
		)

		ViewCacheRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "view_cache_requests_total",
				Help: "视图缓存请求总数",
			},
			[]string{"result"},
		)

		EventsPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "领域事件发布总数",
			},
			[]string{"routing_key", "result"},
		)
	})
}

// ObserveOperation 记录一次目录操作的结果与耗时
func ObserveOperation(entity, operation string, err error, seconds float64) {
	InitMetrics()
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	CatalogOperationsTotal.WithLabelValues(entity, operation, result).Inc()
	CatalogOperationDuration.WithLabelValues(entity, operation).Observe(seconds)
}

// ObserveCache 记录一次视图缓存访问(hit/miss/error)
func ObserveCache(result string) {
	InitMetrics()
	ViewCacheRequestsTotal.WithLabelValues(result).Inc()
}

// ObservePublish 记录一次事件发布
func ObservePublish(routingKey string, err error) {
	InitMetrics()
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	EventsPublishedTotal.WithLabelValues(routingKey, result).Inc()
}

// ==================== 辅助函数 ====================

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
