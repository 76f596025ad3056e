package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ResourceMetrics 数据库连接池与 Redis 操作指标
type ResourceMetrics struct {
	DBConnections  *prometheus.GaugeVec // 连接数（open/in_use/idle）
	DBWaitCount    *prometheus.GaugeVec // 累计等待连接次数
	DBWaitDuration *prometheus.GaugeVec // 累计等待时长

	RedisOperations        *prometheus.CounterVec
	RedisOperationDuration *prometheus.HistogramVec
	RedisConnectionPool    *prometheus.GaugeVec
}

// DefaultResourceMetrics 默认实例，注册到 GetRegisterer()
var DefaultResourceMetrics = NewResourceMetricsWithRegistry(Namespace, GetRegisterer())

// RedisOperationBuckets Redis 操作延迟 buckets
// 单位：秒
var RedisOperationBuckets = []float64{
	0.001, // 1ms
	0.005, // 5ms
	0.01,  // 10ms
	0.025, // 25ms
	0.05,  // 50ms
	0.1,   // 100ms
	0.5,   // 500ms
	1,     // 1s
}

// NewResourceMetricsWithRegistry 创建新的资源指标收集器（使用自定义注册表）
func NewResourceMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ResourceMetrics {
	factory := promauto.With(registerer)

	return &ResourceMetrics{
		DBConnections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "connections",
				Help:      "Current number of database connections by state (open/in_use/idle)",
			},
			[]string{"service", "database", "state"},
		),

		DBWaitCount: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "wait_count",
				Help:      "Cumulative number of connections waited for",
			},
			[]string{"service", "database"},
		),

		DBWaitDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "db",
				Name:      "wait_duration_seconds",
				Help:      "Cumulative time blocked waiting for a new connection",
			},
			[]string{"service", "database"},
		),

		RedisOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operations_total",
				Help:      "Total number of Redis operations by type and result (success/miss/error)",
			},
			[]string{"operation", "result", "service"},
		),

		RedisOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "operation_duration_seconds",
				Help:      "Redis operation duration in seconds by operation type",
				Buckets:   RedisOperationBuckets,
			},
			[]string{"operation", "service"},
		),

		RedisConnectionPool: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "redis",
				Name:      "connection_pool",
				Help:      "Redis connection pool status (total/idle/stale)",
			},
			[]string{"state", "service"},
		),
	}
}

// RecordDBStats 记录 database/sql 连接池快照
func (m *ResourceMetrics) RecordDBStats(service, database string, stats sql.DBStats) {
	service = normalizeServiceName(service)
	m.DBConnections.WithLabelValues(service, database, "open").Set(float64(stats.OpenConnections))
	m.DBConnections.WithLabelValues(service, database, "in_use").Set(float64(stats.InUse))
	m.DBConnections.WithLabelValues(service, database, "idle").Set(float64(stats.Idle))
	m.DBWaitCount.WithLabelValues(service, database).Set(float64(stats.WaitCount))
	m.DBWaitDuration.WithLabelValues(service, database).Set(stats.WaitDuration.Seconds())
}

// RecordRedisOperation 记录 Redis 操作
//
// 参数:
//   - operation: 操作类型（如 "GET", "SET", "DEL"）
//   - result: "success", "miss" 或 "error"
func (m *ResourceMetrics) RecordRedisOperation(operation, result string, duration time.Duration, service string) {
	service = normalizeServiceName(service)
	m.RedisOperations.WithLabelValues(operation, result, service).Inc()
	m.RedisOperationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

// RecordRedisPoolStats 记录 Redis 连接池统计信息
func (m *ResourceMetrics) RecordRedisPoolStats(totalConns, idleConns, staleConns int, service string) {
	service = normalizeServiceName(service)
	m.RedisConnectionPool.WithLabelValues("total", service).Set(float64(totalConns))
	m.RedisConnectionPool.WithLabelValues("idle", service).Set(float64(idleConns))
	m.RedisConnectionPool.WithLabelValues("stale", service).Set(float64(staleConns))
}
