package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/battletest"
	"tsu-arena/internal/domain/battle/replay"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/notify"
	"tsu-arena/internal/pkg/xerrors"
)

type replayFixture struct {
	svc   *ReplayService
	pub   *recordingPublisher
	clock time.Time
}

func newReplayFixture(t *testing.T, cfg ReplayConfig) *replayFixture {
	t.Helper()
	repo := newMemoryRecordRepo()
	records := NewBattleRecordService(repo, nil, nil, log.Discard())
	_, err := records.Record(context.Background(), battletest.Example())
	require.NoError(t, err)

	f := &replayFixture{pub: &recordingPublisher{}, clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	f.svc = NewReplayService(records, f.pub, cfg, log.Discard())
	f.svc.now = func() time.Time { return f.clock }
	return f
}

// TestReplayService_PlayThrough 逐回合播放到结束
func TestReplayService_PlayThrough(t *testing.T) {
	f := newReplayFixture(t, ReplayConfig{})
	ctx := context.Background()

	opened, err := f.svc.Open(ctx, "battle-test")
	require.NoError(t, err)
	assert.Equal(t, replay.PhaseIntro, opened.Phase)
	assert.Equal(t, "battle-test", opened.BattleID)
	id := opened.SessionID

	_, err = f.svc.Report(ctx, id)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeReplayReportNotReady))

	view, err := f.svc.AdvanceToFighting(ctx, id)
	require.NoError(t, err)
	assert.True(t, view.Advanced)

	for i := 0; i < 3; i++ {
		view, err = f.svc.Tick(ctx, id)
		require.NoError(t, err)
		assert.True(t, view.Advanced)
	}
	assert.Equal(t, replay.PhaseResult, view.Phase)
	assert.Equal(t, int64(0), view.Opponent.Health)

	// 终态上的操作为空操作
	again, err := f.svc.Tick(ctx, id)
	require.NoError(t, err)
	assert.False(t, again.Advanced)
	assert.Equal(t, view.View, again.View)

	report, err := f.svc.Report(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(100), report.Stats.Challenger.DamageDealt)

	// 完成事件只发布一次
	_, _ = f.svc.Skip(ctx, id)
	assert.Equal(t, []string{notify.SubjectReplayCompleted}, f.pub.subjects())
	ev := f.pub.events[0].payload.(notify.ReplayCompletedEvent)
	assert.Equal(t, id, ev.SessionID)
	assert.False(t, ev.Skipped)
	assert.Equal(t, 3, ev.Cursor)
}

// TestReplayService_SkipAndInline 内联日志与跳过
func TestReplayService_SkipAndInline(t *testing.T) {
	f := newReplayFixture(t, ReplayConfig{})
	ctx := context.Background()

	opened, err := f.svc.OpenInline(ctx, battletest.Empty())
	require.NoError(t, err)

	view, err := f.svc.Skip(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.True(t, view.Complete)
	assert.Equal(t, int64(100), view.Challenger.Health)

	require.Len(t, f.pub.events, 1)
	assert.True(t, f.pub.events[0].payload.(notify.ReplayCompletedEvent).Skipped)

	bad := battletest.Example()
	bad.Turns[0].Damage = -1
	_, err = f.svc.OpenInline(ctx, bad)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))
	assert.Equal(t, 1, f.svc.Len())
}

// TestReplayService_UnknownSession 未知会话
func TestReplayService_UnknownSession(t *testing.T) {
	f := newReplayFixture(t, ReplayConfig{})
	ctx := context.Background()

	_, err := f.svc.Tick(ctx, "nope")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeReplaySessionNotFound))
	_, err = f.svc.View(ctx, "nope")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeReplaySessionNotFound))
	assert.True(t, xerrors.IsCode(f.svc.Close(ctx, "nope"), xerrors.CodeReplaySessionNotFound))

	_, err = f.svc.Open(ctx, "missing-battle")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleNotFound))
}

// TestReplayService_SweepAndLimit 过期清理与会话上限
func TestReplayService_SweepAndLimit(t *testing.T) {
	f := newReplayFixture(t, ReplayConfig{SessionTTL: time.Minute, MaxSessions: 2})
	ctx := context.Background()

	first, err := f.svc.OpenInline(ctx, battletest.Example())
	require.NoError(t, err)
	f.clock = f.clock.Add(45 * time.Second)
	second, err := f.svc.OpenInline(ctx, battletest.Example())
	require.NoError(t, err)

	_, err = f.svc.OpenInline(ctx, battletest.Example())
	assert.True(t, xerrors.IsCode(err, xerrors.CodeReplaySessionLimit))

	// first 空闲超过 TTL，腾出位置
	f.clock = f.clock.Add(30 * time.Second)
	_, err = f.svc.OpenInline(ctx, battletest.Example())
	require.NoError(t, err)

	_, err = f.svc.View(ctx, first.SessionID)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeReplaySessionNotFound))
	_, err = f.svc.View(ctx, second.SessionID)
	assert.NoError(t, err)

	f.clock = f.clock.Add(2 * time.Minute)
	assert.Equal(t, 2, f.svc.SweepExpired(f.clock))
	assert.Zero(t, f.svc.Len())
}

// TestReplayService_Close 关闭后会话不可用
func TestReplayService_Close(t *testing.T) {
	f := newReplayFixture(t, ReplayConfig{})
	ctx := context.Background()

	opened, err := f.svc.OpenInline(ctx, battletest.Example())
	require.NoError(t, err)
	require.NoError(t, f.svc.Close(ctx, opened.SessionID))

	_, err = f.svc.Tick(ctx, opened.SessionID)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeReplaySessionNotFound))
}

// TestReplayService_ConcurrentTicks 同一会话并发 tick 不会越界
func TestReplayService_ConcurrentTicks(t *testing.T) {
	f := newReplayFixture(t, ReplayConfig{})
	ctx := context.Background()

	turns := make([]battle.TurnRecord, 0, 50)
	for i := 0; i < 50; i++ {
		turns = append(turns, battletest.Turn(i, battle.SideChallenger, 1, 100, int64(99-i)))
	}
	opened, err := f.svc.OpenInline(ctx, battletest.Result(battle.OutcomeDraw, turns...))
	require.NoError(t, err)
	_, err = f.svc.AdvanceToFighting(ctx, opened.SessionID)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		advanced int
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				view, err := f.svc.Tick(ctx, opened.SessionID)
				if err == nil && view.Advanced {
					mu.Lock()
					advanced++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	view, err := f.svc.View(ctx, opened.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 50, advanced)
	assert.Equal(t, 50, view.Cursor)
	assert.True(t, view.Complete)
	assert.Len(t, f.pub.subjects(), 1)
}
