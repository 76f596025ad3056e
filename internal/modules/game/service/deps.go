package service

import (
	"context"
	"time"

	"tsu-arena/internal/domain/battle"
)

// eventPublisher 事件发布，notify.Publisher 满足该接口
type eventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// reportCache 战报缓存，redis.Client 满足该接口
type reportCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteKey(ctx context.Context, keys ...string) error
}

// battleLoader 按 battle_id 读取归档的战斗日志
type battleLoader interface {
	Get(ctx context.Context, battleID string) (*battle.BattleResult, error)
}
