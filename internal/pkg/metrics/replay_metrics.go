package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ReplayMetrics 战斗回放与战报指标收集器
type ReplayMetrics struct {
	// 当前存活的回放会话数
	SessionsActive *prometheus.GaugeVec

	// 移除的回放会话数（completed/abandoned）
	SessionsTotal *prometheus.CounterVec

	// 已播放的回合数
	TicksTotal *prometheus.CounterVec

	// 跳过操作次数（按跳过时所处阶段）
	SkipsTotal *prometheus.CounterVec

	// 战报统计耗时
	ReportDuration *prometheus.HistogramVec

	// 战报缓存命中情况（hit/miss/error）
	ReportCacheTotal *prometheus.CounterVec

	// 归档的战斗结果数（按结果）
	ResultsRecordedTotal *prometheus.CounterVec
}

// DefaultReplayMetrics 默认实例，注册到 GetRegisterer()
var DefaultReplayMetrics = NewReplayMetricsWithRegistry(Namespace, GetRegisterer())

// ReportBuckets 战报统计为纯内存计算，通常在毫秒以内
// 单位：秒
var ReportBuckets = []float64{
	0.0005, // 0.5ms
	0.001,  // 1ms
	0.005,  // 5ms
	0.01,   // 10ms
	0.05,   // 50ms
	0.1,    // 100ms
	0.5,    // 500ms
}

// NewReplayMetricsWithRegistry 创建回放指标收集器（使用自定义注册表）
func NewReplayMetricsWithRegistry(namespace string, registerer prometheus.Registerer) *ReplayMetrics {
	factory := promauto.With(registerer)

	return &ReplayMetrics{
		SessionsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "replay",
				Name:      "sessions_active",
				Help:      "Current number of live replay sessions",
			},
			[]string{"service"},
		),

		SessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "replay",
				Name:      "sessions_total",
				Help:      "Total number of removed replay sessions by whether playback had finished (completed/abandoned)",
			},
			[]string{"outcome", "service"},
		),

		TicksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "replay",
				Name:      "ticks_total",
				Help:      "Total number of turns played back tick by tick",
			},
			[]string{"service"},
		),

		SkipsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "replay",
				Name:      "skips_total",
				Help:      "Total number of skip operations by the phase they were issued in",
			},
			[]string{"phase", "service"},
		),

		ReportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "report_duration_seconds",
				Help:      "Battle report aggregation latency in seconds",
				Buckets:   ReportBuckets,
			},
			[]string{"service"},
		),

		ReportCacheTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "report_cache_total",
				Help:      "Battle report cache lookups by result (hit/miss/error)",
			},
			[]string{"result", "service"},
		),

		ResultsRecordedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "battle",
				Name:      "results_recorded_total",
				Help:      "Total number of archived battle results by outcome",
			},
			[]string{"outcome", "service"},
		),
	}
}

// SessionOpened 新建回放会话
func (m *ReplayMetrics) SessionOpened(service string) {
	service = normalizeServiceName(service)
	m.SessionsActive.WithLabelValues(service).Inc()
}

// SessionEnded 回放会话结束
//
// 参数:
//   - outcome: 移除时回放是否已结束 ("completed", "abandoned")
func (m *ReplayMetrics) SessionEnded(outcome, service string) {
	service = normalizeServiceName(service)
	m.SessionsActive.WithLabelValues(service).Dec()
	m.SessionsTotal.WithLabelValues(outcome, service).Inc()
}

// RecordTick 记录一次回合播放
func (m *ReplayMetrics) RecordTick(service string) {
	service = normalizeServiceName(service)
	m.TicksTotal.WithLabelValues(service).Inc()
}

// RecordSkip 记录一次跳过
func (m *ReplayMetrics) RecordSkip(phase, service string) {
	service = normalizeServiceName(service)
	m.SkipsTotal.WithLabelValues(phase, service).Inc()
}

// ObserveReport 记录战报统计耗时
func (m *ReplayMetrics) ObserveReport(duration time.Duration, service string) {
	service = normalizeServiceName(service)
	m.ReportDuration.WithLabelValues(service).Observe(duration.Seconds())
}

// RecordReportCache 记录战报缓存结果 ("hit", "miss", "error")
func (m *ReplayMetrics) RecordReportCache(result, service string) {
	service = normalizeServiceName(service)
	m.ReportCacheTotal.WithLabelValues(result, service).Inc()
}

// RecordResult 记录归档的战斗结果
func (m *ReplayMetrics) RecordResult(outcome, service string) {
	service = normalizeServiceName(service)
	m.ResultsRecordedTotal.WithLabelValues(outcome, service).Inc()
}
