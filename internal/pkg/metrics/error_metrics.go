package metrics

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tsu-arena/internal/pkg/xerrors"
)

// ErrorMetrics 错误监控指标
type ErrorMetrics struct {
	// 错误总数（按错误码）
	ErrorsByCode *prometheus.CounterVec

	// 错误总数（按级别）
	ErrorsByLevel *prometheus.CounterVec

	// HTTP 响应总数（按状态码）
	HTTPResponses *prometheus.CounterVec
}

// DefaultErrorMetrics 默认实例，注册到 GetRegisterer()
var DefaultErrorMetrics = NewErrorMetricsWithRegistry(Namespace, GetRegisterer())

// NewErrorMetricsWithRegistry 创建新的错误指标收集器（使用自定义注册表）
func NewErrorMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ErrorMetrics {
	factory := promauto.With(registerer)

	return &ErrorMetrics{
		ErrorsByCode: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"service", "method", "code", "category", "level"},
		),

		ErrorsByLevel: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_level_total",
				Help:      "Total number of errors by level (info, warn, error, critical)",
			},
			[]string{"service", "level"},
		),

		HTTPResponses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_responses_total",
				Help:      "Total number of HTTP responses by status code",
			},
			[]string{"service", "status_code", "method"},
		),
	}
}

// RecordError 记录错误指标
func (m *ErrorMetrics) RecordError(appErr *xerrors.AppError, statusCode int, method, service string) {
	if appErr == nil {
		return
	}

	service = normalizeServiceName(service)
	method = normalizeMethod(method)
	code := strconv.Itoa(appErr.Code.ToInt())
	level := appErr.Level.String()

	m.ErrorsByCode.WithLabelValues(service, method, code, appErr.Category, level).Inc()
	m.ErrorsByLevel.WithLabelValues(service, level).Inc()
	m.HTTPResponses.WithLabelValues(service, strconv.Itoa(statusCode), method).Inc()
}

// RecordHTTPResponse 记录 HTTP 响应指标（成功响应）
func (m *ErrorMetrics) RecordHTTPResponse(statusCode int, method, service string) {
	service = normalizeServiceName(service)
	m.HTTPResponses.WithLabelValues(service, strconv.Itoa(statusCode), normalizeMethod(method)).Inc()
}

func normalizeMethod(method string) string {
	if method == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(method)
}
