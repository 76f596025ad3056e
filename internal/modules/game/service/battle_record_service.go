// Package service 游戏服的业务服务：战斗日志归档、战报统计与回放会话。
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aarondl/null/v8"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/metrics"
	"tsu-arena/internal/pkg/notify"
	"tsu-arena/internal/pkg/xerrors"
	"tsu-arena/internal/repository/interfaces"
)

// RecordSummary 归档记录的摘要
type RecordSummary struct {
	BattleID       string    `json:"battle_id"`
	BattleCode     string    `json:"battle_code,omitempty"`
	Outcome        string    `json:"outcome"`
	ChallengerName string    `json:"challenger_name"`
	OpponentName   string    `json:"opponent_name"`
	TurnCount      int       `json:"turn_count"`
	CreatedAt      time.Time `json:"created_at,omitempty"`
}

// BattleRecordService 负责校验并归档外部结算服务产出的战斗日志。
type BattleRecordService struct {
	repo      interfaces.BattleRecordRepository
	publisher eventPublisher
	cache     reportCache
	logger    log.Logger
}

// NewBattleRecordService 构造函数。publisher 与 cache 可以为 nil。
func NewBattleRecordService(repo interfaces.BattleRecordRepository, publisher eventPublisher, cache reportCache, logger log.Logger) *BattleRecordService {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &BattleRecordService{
		repo:      repo,
		publisher: publisher,
		cache:     cache,
		logger:    logger,
	}
}

// Record 校验并归档战斗日志。同一 battle_id 重复提交时覆盖旧记录。
func (s *BattleRecordService) Record(ctx context.Context, result *battle.BattleResult) (*RecordSummary, error) {
	if result == nil || strings.TrimSpace(result.BattleID) == "" {
		return nil, xerrors.NewValidationError("battle_id", "battle_id 不能为空")
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	data, err := battle.Encode(result)
	if err != nil {
		return nil, err
	}

	rec := &interfaces.BattleRecord{
		BattleID:       result.BattleID,
		BattleCode:     null.NewString(result.BattleCode, result.BattleCode != ""),
		Outcome:        string(result.Outcome),
		ChallengerName: result.Challenger.Identity.Name,
		OpponentName:   result.Opponent.Identity.Name,
		TurnCount:      len(result.Turns),
		Result:         data,
		Rewards:        null.NewJSON(result.Rewards, len(result.Rewards) > 0),
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return nil, xerrors.NewDatabaseError("upsert", "battle_records", err).WithBattle(result.BattleID)
	}

	metrics.DefaultReplayMetrics.RecordResult(rec.Outcome, "")

	// 覆盖写入后旧战报失效
	if s.cache != nil {
		if err := s.cache.DeleteKey(ctx, ReportCacheKey(result.BattleID)); err != nil {
			s.logger.WarnContext(ctx, "invalidate battle report cache failed", log.String("battle_id", result.BattleID), log.Err(err))
		}
	}

	if s.publisher != nil {
		event := notify.BattleRecordedEvent{BattleID: rec.BattleID, Outcome: rec.Outcome, TurnCount: rec.TurnCount}
		if err := s.publisher.Publish(ctx, notify.SubjectBattleResultRecorded, event); err != nil {
			s.logger.WarnContext(ctx, "publish battle recorded event failed", log.String("battle_id", rec.BattleID), log.Err(err))
		}
	}

	log.LogBusinessEvent(ctx, s.logger, "battle_recorded", "battle", rec.BattleID, map[string]interface{}{
		"outcome":    rec.Outcome,
		"turn_count": rec.TurnCount,
	})
	return summaryOf(rec), nil
}

// Get 读取并解码归档的战斗日志
func (s *BattleRecordService) Get(ctx context.Context, battleID string) (*battle.BattleResult, error) {
	if strings.TrimSpace(battleID) == "" {
		return nil, xerrors.NewValidationError("battle_id", "battle_id 不能为空")
	}

	rec, err := s.repo.GetByBattleID(ctx, battleID)
	if err != nil {
		if errors.Is(err, interfaces.ErrBattleRecordNotFound) {
			return nil, xerrors.NewBattleNotFoundError(battleID)
		}
		return nil, xerrors.NewDatabaseError("select", "battle_records", err).WithBattle(battleID)
	}

	result, err := battle.Decode(rec.Result)
	if err != nil {
		return nil, xerrors.NewWithError(xerrors.CodeDataIntegrityError, "归档的战斗日志已损坏", err).WithBattle(battleID)
	}
	return result, nil
}

// maxRecentLimit 单次最多返回的记录数
const maxRecentLimit = 100

// ListRecent 最近归档的战斗，按归档时间倒序
func (s *BattleRecordService) ListRecent(ctx context.Context, limit int) ([]*RecordSummary, error) {
	if limit <= 0 || limit > maxRecentLimit {
		limit = maxRecentLimit
	}
	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, xerrors.NewDatabaseError("select", "battle_records", err)
	}

	out := make([]*RecordSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, summaryOf(rec))
	}
	return out, nil
}

func summaryOf(rec *interfaces.BattleRecord) *RecordSummary {
	return &RecordSummary{
		BattleID:       rec.BattleID,
		BattleCode:     rec.BattleCode.String,
		Outcome:        rec.Outcome,
		ChallengerName: rec.ChallengerName,
		OpponentName:   rec.OpponentName,
		TurnCount:      rec.TurnCount,
		CreatedAt:      rec.CreatedAt,
	}
}
