package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics HTTP 请求指标
type HTTPMetrics struct {
	// 按服务、路由模板、方法、状态码分组
	RequestsTotal *prometheus.CounterVec
	// 按服务、路由模板分组
	RequestDuration *prometheus.HistogramVec
	// 进行中的请求数
	RequestsInProgress *prometheus.GaugeVec
}

// DefaultHTTPMetrics 默认实例，注册到 GetRegisterer()
var DefaultHTTPMetrics = NewHTTPMetricsWithRegistry(Namespace, GetRegisterer())

// HTTPBuckets 回放接口大多只操作内存会话，战报首次查询需要读库
// 单位：秒
var HTTPBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// skipPaths 不计入 HTTP 指标的端点
var skipPaths = map[string]struct{}{
	"/metrics": {},
	"/health":  {},
	"/healthz": {},
	"/readyz":  {},
}

// NewHTTPMetricsWithRegistry 在指定注册表上创建 HTTP 指标
func NewHTTPMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(registerer)

	return &HTTPMetrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by service, route template, method and status code",
		}, []string{"service", "route", "method", "status_code"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by service and route template",
			Buckets:   HTTPBuckets,
		}, []string{"service", "route"}),

		RequestsInProgress: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_progress",
			Help:      "HTTP requests currently being served",
		}, []string{"service"}),
	}
}

// RecordRequest route 为路由模板，例如 /api/v1/game/replays/:session_id/tick
func (m *HTTPMetrics) RecordRequest(service, route, method string, statusCode int, duration time.Duration) {
	service = normalizeServiceName(service)
	m.RequestsTotal.WithLabelValues(service, route, method, strconv.Itoa(statusCode)).Inc()
	m.RequestDuration.WithLabelValues(service, route).Observe(duration.Seconds())
}

func (m *HTTPMetrics) IncInProgress(service string) {
	m.RequestsInProgress.WithLabelValues(normalizeServiceName(service)).Inc()
}

func (m *HTTPMetrics) DecInProgress(service string) {
	m.RequestsInProgress.WithLabelValues(normalizeServiceName(service)).Dec()
}

// IsHealthCheckEndpoint 健康检查与 /metrics 不计入指标
func IsHealthCheckEndpoint(path string) bool {
	_, ok := skipPaths[path]
	return ok
}

// routeLimiter 限制路由标签的基数，超过上限的路由记为 "other"
type routeLimiter struct {
	mu    sync.Mutex
	seen  map[string]struct{}
	limit int
}

func newRouteLimiter(limit int) *routeLimiter {
	return &routeLimiter{seen: make(map[string]struct{}), limit: limit}
}

func (l *routeLimiter) label(route string) string {
	if route == "" {
		return "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[route]; ok {
		return route
	}
	if len(l.seen) >= l.limit {
		return "other"
	}
	l.seen[route] = struct{}{}
	return route
}

func (l *routeLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
