// Package tasks 游戏服定时任务
package tasks

import (
	"time"

	"github.com/robfig/cron/v3"

	"tsu-arena/internal/pkg/log"
)

// sessionSweeper 清理空闲回放会话，service.ReplayService 满足该接口
type sessionSweeper interface {
	SweepExpired(now time.Time) int
	Len() int
}

// ReplaySweepTask 定时清理空闲超时的回放会话
type ReplaySweepTask struct {
	sweeper sessionSweeper
	spec    string
	logger  log.Logger
	cron    *cron.Cron
	now     func() time.Time
}

// NewReplaySweepTask 创建清理任务。spec 为带秒的 cron 表达式，为空时每分钟执行。
func NewReplaySweepTask(sweeper sessionSweeper, spec string, logger log.Logger) *ReplaySweepTask {
	if spec == "" {
		spec = "0 */1 * * * *"
	}
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ReplaySweepTask{
		sweeper: sweeper,
		spec:    spec,
		logger:  logger,
		now:     time.Now,
	}
}

// Start 启动定时任务
func (t *ReplaySweepTask) Start() error {
	// Cron 表达式: 秒 分 时 日 月 周
	t.cron = cron.New(cron.WithSeconds())

	if _, err := t.cron.AddFunc(t.spec, t.RunOnce); err != nil {
		t.logger.Error("【定时任务】添加回放会话清理任务失败", err, "spec", t.spec)
		return err
	}

	t.cron.Start()
	t.logger.Info("【定时任务】已启动 - 回放会话清理", "spec", t.spec)
	return nil
}

// RunOnce 执行一次清理
func (t *ReplaySweepTask) RunOnce() {
	removed := t.sweeper.SweepExpired(t.now())
	if removed == 0 {
		return
	}
	t.logger.Info("【定时任务】回放会话清理完成",
		"removed", removed,
		"remaining", t.sweeper.Len())
}

// Stop 停止定时任务（优雅关闭）
func (t *ReplaySweepTask) Stop() {
	if t.cron != nil {
		ctx := t.cron.Stop()
		<-ctx.Done()
		t.logger.Info("【定时任务】回放会话清理已停止")
	}
}
