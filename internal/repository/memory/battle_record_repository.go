// Package memory 进程内的仓储实现，供命令行工具与 handler 测试使用。
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tsu-arena/internal/repository/interfaces"
)

// BattleRecordRepository 内存版战斗记录仓储，并发安全
type BattleRecordRepository struct {
	mu      sync.RWMutex
	records map[string]*interfaces.BattleRecord
	now     func() time.Time
}

// NewBattleRecordRepository 创建空仓储
func NewBattleRecordRepository() *BattleRecordRepository {
	return &BattleRecordRepository{
		records: make(map[string]*interfaces.BattleRecord),
		now:     time.Now,
	}
}

// Upsert 按 battle_id 写入或覆盖，覆盖时保留 created_at
func (r *BattleRecordRepository) Upsert(ctx context.Context, rec *interfaces.BattleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *rec
	now := r.now()
	cp.CreatedAt = now
	if old, ok := r.records[rec.BattleID]; ok {
		cp.CreatedAt = old.CreatedAt
	}
	cp.UpdatedAt = now
	r.records[rec.BattleID] = &cp

	rec.CreatedAt = cp.CreatedAt
	rec.UpdatedAt = cp.UpdatedAt
	return nil
}

// GetByBattleID 不存在时返回 interfaces.ErrBattleRecordNotFound
func (r *BattleRecordRepository) GetByBattleID(ctx context.Context, battleID string) (*interfaces.BattleRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[battleID]
	if !ok {
		return nil, interfaces.ErrBattleRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

// ListRecent 按创建时间倒序
func (r *BattleRecordRepository) ListRecent(ctx context.Context, limit int) ([]*interfaces.BattleRecord, error) {
	r.mu.RLock()
	out := make([]*interfaces.BattleRecord, 0, len(r.records))
	for _, rec := range r.records {
		cp := *rec
		out = append(out, &cp)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].BattleID < out[j].BattleID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ interfaces.BattleRecordRepository = (*BattleRecordRepository)(nil)
