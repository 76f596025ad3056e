package tasks

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/pkg/log"
)

type fakeSweeper struct {
	mu    sync.Mutex
	calls []time.Time
	left  int
}

func (f *fakeSweeper) SweepExpired(now time.Time) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return 2
}

func (f *fakeSweeper) Len() int { return f.left }

func TestReplaySweepTaskRunOnce(t *testing.T) {
	sweeper := &fakeSweeper{left: 3}
	task := NewReplaySweepTask(sweeper, "", log.Discard())

	fixed := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	task.now = func() time.Time { return fixed }
	task.RunOnce()

	require.Len(t, sweeper.calls, 1)
	assert.Equal(t, fixed, sweeper.calls[0])
	assert.Equal(t, "0 */1 * * * *", task.spec)
}

func TestReplaySweepTaskRejectsBadSpec(t *testing.T) {
	task := NewReplaySweepTask(&fakeSweeper{}, "not a cron", log.Discard())
	assert.Error(t, task.Start())
	task.Stop()
}

func TestReplaySweepTaskStartStop(t *testing.T) {
	task := NewReplaySweepTask(&fakeSweeper{}, "*/1 * * * * *", log.Discard())
	require.NoError(t, task.Start())
	task.Stop()
}

type fakeDB struct{ calls int }

func (f *fakeDB) Stats() sql.DBStats {
	f.calls++
	return sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2}
}

type fakePool struct{ calls int }

func (f *fakePool) RecordPoolStats() { f.calls++ }

func TestResourceStatsTaskRunOnce(t *testing.T) {
	db, pool := &fakeDB{}, &fakePool{}
	NewResourceStatsTask(db, pool, log.Discard()).RunOnce()
	assert.Equal(t, 1, db.calls)
	assert.Equal(t, 1, pool.calls)

	// 依赖缺失时跳过
	assert.NotPanics(t, func() { NewResourceStatsTask(nil, nil, log.Discard()).RunOnce() })
}
