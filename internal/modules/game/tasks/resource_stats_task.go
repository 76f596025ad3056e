package tasks

import (
	"database/sql"

	"github.com/robfig/cron/v3"

	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/metrics"
)

type dbStatser interface {
	Stats() sql.DBStats
}

type poolRecorder interface {
	RecordPoolStats()
}

// ResourceStatsTask 每 30 秒把数据库与 Redis 连接池状态写入 Prometheus
type ResourceStatsTask struct {
	db     dbStatser    // 可以为 nil
	redis  poolRecorder // 可以为 nil
	logger log.Logger
	cron   *cron.Cron
}

// NewResourceStatsTask 创建连接池监控任务
func NewResourceStatsTask(db dbStatser, redis poolRecorder, logger log.Logger) *ResourceStatsTask {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ResourceStatsTask{db: db, redis: redis, logger: logger}
}

// Start 启动定时任务
func (t *ResourceStatsTask) Start() error {
	t.cron = cron.New(cron.WithSeconds())
	if _, err := t.cron.AddFunc("*/30 * * * * *", t.RunOnce); err != nil {
		t.logger.Error("【定时任务】添加连接池监控任务失败", err)
		return err
	}
	t.cron.Start()
	return nil
}

// RunOnce 采集一次连接池状态
func (t *ResourceStatsTask) RunOnce() {
	if t.db != nil {
		metrics.DefaultResourceMetrics.RecordDBStats(metrics.GetServiceName(), "postgres", t.db.Stats())
	}
	if t.redis != nil {
		t.redis.RecordPoolStats()
	}
}

// Stop 停止定时任务
func (t *ResourceStatsTask) Stop() {
	if t.cron != nil {
		<-t.cron.Stop().Done()
	}
}
