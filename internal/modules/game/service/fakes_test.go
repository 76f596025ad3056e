package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"tsu-arena/internal/repository/interfaces"
)

// memoryRecordRepo 内存版战斗记录仓储
type memoryRecordRepo struct {
	mu      sync.Mutex
	records map[string]*interfaces.BattleRecord
	err     error
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{records: map[string]*interfaces.BattleRecord{}}
}

func (r *memoryRecordRepo) Upsert(ctx context.Context, rec *interfaces.BattleRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	cp := *rec
	cp.CreatedAt = time.Now()
	r.records[rec.BattleID] = &cp
	return nil
}

func (r *memoryRecordRepo) GetByBattleID(ctx context.Context, battleID string) (*interfaces.BattleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	rec, ok := r.records[battleID]
	if !ok {
		return nil, interfaces.ErrBattleRecordNotFound
	}
	cp := *rec
	return &cp, nil
}

func (r *memoryRecordRepo) ListRecent(ctx context.Context, limit int) ([]*interfaces.BattleRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*interfaces.BattleRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	return out, nil
}

type publishedEvent struct {
	subject string
	payload any
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{subject: subject, payload: payload})
	return p.err
}

func (p *recordingPublisher) subjects() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.subject)
	}
	return out
}

// memoryCache 内存版战报缓存
type memoryCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	gets    int
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.failGet {
		return nil, false, errors.New("redis unavailable")
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) DeleteKey(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}
