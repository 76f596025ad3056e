package service

import (
	"time"

	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/repository/interfaces"
)

// ContainerConfig 服务容器依赖
type ContainerConfig struct {
	Records   interfaces.BattleRecordRepository
	Publisher eventPublisher // 可选，未连接 NATS 时传 nil
	Cache     reportCache    // 可选，未连接 Redis 时传 nil
	Replay    ReplayConfig
	ReportTTL time.Duration
	Logger    log.Logger
}

// ServiceContainer 游戏服务容器 - 统一管理 Repository 和 Service
type ServiceContainer struct {
	battleRecordRepo interfaces.BattleRecordRepository

	BattleRecordService *BattleRecordService
	BattleReportService *BattleReportService
	ReplayService       *ReplayService
}

// NewServiceContainer 创建服务容器
func NewServiceContainer(cfg ContainerConfig) *ServiceContainer {
	c := &ServiceContainer{battleRecordRepo: cfg.Records}

	c.BattleRecordService = NewBattleRecordService(c.battleRecordRepo, cfg.Publisher, cfg.Cache, cfg.Logger)
	c.BattleReportService = NewBattleReportService(c.BattleRecordService, cfg.Cache, cfg.ReportTTL, cfg.Logger)
	c.ReplayService = NewReplayService(c.BattleRecordService, cfg.Publisher, cfg.Replay, cfg.Logger)

	return c
}
