// Package nats NATS 连接辅助
package nats

import (
	"context"
	"sync/atomic"
	"time"
)

// ConnState 健康检查读取的连接状态，*nats.Conn 满足该接口
type ConnState interface {
	IsConnected() bool
	IsClosed() bool
}

// HealthChecker 定期检查 NATS 连接，结果供 /health 使用
type HealthChecker struct {
	conn     ConnState
	healthy  atomic.Bool
	interval time.Duration
}

// NewHealthChecker 创建健康检查器
func NewHealthChecker(conn ConnState, checkInterval time.Duration) *HealthChecker {
	if checkInterval <= 0 {
		checkInterval = 10 * time.Second
	}

	hc := &HealthChecker{conn: conn, interval: checkInterval}
	hc.check()
	return hc
}

// Start 启动健康检查，ctx 取消后退出
func (hc *HealthChecker) Start(ctx context.Context) {
	ticker := time.NewTicker(hc.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			hc.check()
		}
	}
}

// IsHealthy 最近一次检查的结果
func (hc *HealthChecker) IsHealthy() bool {
	return hc.healthy.Load()
}

func (hc *HealthChecker) check() {
	hc.healthy.Store(hc.conn != nil && hc.conn.IsConnected() && !hc.conn.IsClosed())
}
