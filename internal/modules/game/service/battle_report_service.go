package service

import (
	"context"
	"encoding/json"
	"time"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/stats"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/metrics"
)

const reportCachePrefix = "battle:report:"

// ReportCacheKey 战报缓存键
func ReportCacheKey(battleID string) string {
	return reportCachePrefix + battleID
}

// BattleReport 一场战斗的战后统计
type BattleReport struct {
	BattleID  string         `json:"battle_id,omitempty"`
	Outcome   battle.Outcome `json:"outcome"`
	TurnCount int            `json:"turn_count"`
	Stats     stats.Report   `json:"stats"`
}

// BattleReportService 对完整的回合列表做统计，并把结果缓存到 Redis。
// 缓存不可用时直接重新计算。
type BattleReportService struct {
	loader battleLoader
	cache  reportCache
	ttl    time.Duration
	logger log.Logger
}

// NewBattleReportService 构造函数。cache 可以为 nil。
func NewBattleReportService(loader battleLoader, cache reportCache, ttl time.Duration, logger log.Logger) *BattleReportService {
	if logger == nil {
		logger = log.GetLogger()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &BattleReportService{
		loader: loader,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Report 读取归档的战斗并返回战报
func (s *BattleReportService) Report(ctx context.Context, battleID string) (*BattleReport, error) {
	if cached, ok := s.fromCache(ctx, battleID); ok {
		return cached, nil
	}

	result, err := s.loader.Get(ctx, battleID)
	if err != nil {
		return nil, err
	}

	report := s.ReportFor(result)
	s.store(ctx, battleID, report)
	return report, nil
}

// ReportFor 直接对给定的战斗日志做统计，不读写缓存
func (s *BattleReportService) ReportFor(result *battle.BattleResult) *BattleReport {
	start := time.Now()
	report := &BattleReport{
		BattleID:  result.BattleID,
		Outcome:   result.Outcome,
		TurnCount: len(result.Turns),
		Stats:     stats.Aggregate(result.Turns),
	}
	metrics.DefaultReplayMetrics.ObserveReport(time.Since(start), "")
	return report
}

func (s *BattleReportService) fromCache(ctx context.Context, battleID string) (*BattleReport, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, ok, err := s.cache.GetBytes(ctx, ReportCacheKey(battleID))
	if err != nil {
		metrics.DefaultReplayMetrics.RecordReportCache("error", "")
		s.logger.WarnContext(ctx, "read battle report cache failed", log.String("battle_id", battleID), log.Err(err))
		return nil, false
	}
	if !ok {
		metrics.DefaultReplayMetrics.RecordReportCache("miss", "")
		return nil, false
	}

	var report BattleReport
	if err := json.Unmarshal(data, &report); err != nil {
		metrics.DefaultReplayMetrics.RecordReportCache("error", "")
		s.logger.WarnContext(ctx, "decode cached battle report failed", log.String("battle_id", battleID), log.Err(err))
		return nil, false
	}
	metrics.DefaultReplayMetrics.RecordReportCache("hit", "")
	return &report, true
}

func (s *BattleReportService) store(ctx context.Context, battleID string, report *BattleReport) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := s.cache.SetBytes(ctx, ReportCacheKey(battleID), data, s.ttl); err != nil {
		s.logger.WarnContext(ctx, "write battle report cache failed", log.String("battle_id", battleID), log.Err(err))
	}
}
