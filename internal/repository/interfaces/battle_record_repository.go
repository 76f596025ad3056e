package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/aarondl/sqlboiler/v4/types"
)

// ErrBattleRecordNotFound 战斗记录不存在
var ErrBattleRecordNotFound = errors.New("battle record not found")

// BattleRecord 归档的战斗日志。只保存日志本身，不保存任何回放进度。
type BattleRecord struct {
	BattleID       string      `boil:"battle_id"`
	BattleCode     null.String `boil:"battle_code"`
	Outcome        string      `boil:"outcome"`
	ChallengerName string      `boil:"challenger_name"`
	OpponentName   string      `boil:"opponent_name"`
	TurnCount      int         `boil:"turn_count"`
	Result         types.JSON  `boil:"result"`  // 完整 BattleResult JSON
	Rewards        null.JSON   `boil:"rewards"` // 奖励原样透传
	CreatedAt      time.Time   `boil:"created_at"`
	UpdatedAt      time.Time   `boil:"updated_at"`
}

// BattleRecordRepository 战斗日志归档
type BattleRecordRepository interface {
	// Upsert 按 battle_id 写入或覆盖
	Upsert(ctx context.Context, rec *BattleRecord) error
	// GetByBattleID 不存在时返回 ErrBattleRecordNotFound
	GetByBattleID(ctx context.Context, battleID string) (*BattleRecord, error)
	// ListRecent 最近归档的记录，按创建时间倒序
	ListRecent(ctx context.Context, limit int) ([]*BattleRecord, error)
}
