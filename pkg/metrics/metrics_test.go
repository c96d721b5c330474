package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitMetrics 测试指标初始化(重复调用不会重复注册)
func TestInitMetrics(t *testing.T) {
	InitMetrics()
	InitMetrics()

	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsInProgress)
	assert.NotNil(t, CatalogOperationsTotal)
	assert.NotNil(t, ViewCacheRequestsTotal)
	assert.NotNil(t, EventsPublishedTotal)
}

// TestObserveOperation 测试目录操作指标
func TestObserveOperation(t *testing.T) {
	InitMetrics()

	ObserveOperation("book", "find_by_id", nil, 0.002)
	ObserveOperation("book", "find_by_id", nil, 0.004)
	ObserveOperation("book", "find_by_id", errors.New("boom"), 0.001)

	assert.Equal(t, float64(2), getCounterVecValue(t, CatalogOperationsTotal, "book", "find_by_id", ResultSuccess))
	assert.Equal(t, float64(1), getCounterVecValue(t, CatalogOperationsTotal, "book", "find_by_id", ResultFailure))
	assert.Equal(t, uint64(3), getHistogramVecCount(t, CatalogOperationDuration, "book", "find_by_id"))
}

// TestGauge 测试Gauge
func TestGauge(t *testing.T) {
	InitMetrics()

	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)

	var metric dto.Metric
	require.NoError(t, HTTPRequestsInProgress.Write(&metric))
	assert.Equal(t, float64(1), metric.Gauge.GetValue())
	DecGauge(HTTPRequestsInProgress)
}

// TestCounterVec 测试带标签的Counter
func TestCounterVec(t *testing.T) {
	InitMetrics()

	IncCounterVec(HTTPRequestsTotal, map[string]string{"method": "GET", "path": "/api/getBooks", "status": "200"})
	IncCounterVec(HTTPRequestsTotal, map[string]string{"method": "GET", "path": "/api/getBooks", "status": "200"})
	IncCounterVec(HTTPRequestsTotal, map[string]string{"method": "POST", "path": "/api/addBook", "status": "200"})

	assert.Equal(t, float64(2), getCounterVecValue(t, HTTPRequestsTotal, "GET", "/api/getBooks", "200"))
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counterVec.WithLabelValues(labels...).Write(&metric), "读取CounterVec值失败")
	return metric.Counter.GetValue()
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	var metric dto.Metric
	histogram := histogramVec.WithLabelValues(labels...)
	require.NoError(t, histogram.(prometheus.Histogram).Write(&metric), "读取HistogramVec值失败")
	return metric.Histogram.GetSampleCount()
}

// TestObserveCacheAndPublish 测试缓存与事件指标
func TestObserveCacheAndPublish(t *testing.T) {
	ObserveCache(CacheHit)
	ObserveCache(CacheMiss)
	ObserveCache(CacheMiss)
	assert.Equal(t, float64(2), getCounterVecValue(t, ViewCacheRequestsTotal, CacheMiss))

	ObservePublish("order.completed", nil)
	ObservePublish("order.completed", errors.New("broker down"))
	assert.Equal(t, float64(1), getCounterVecValue(t, EventsPublishedTotal, "order.completed", ResultFailure))
}
