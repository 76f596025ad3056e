package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/domain/battle/battletest"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/notify"
	"tsu-arena/internal/pkg/xerrors"
)

// TestBattleRecordService_Record 归档后可以原样读回
func TestBattleRecordService_Record(t *testing.T) {
	repo := newMemoryRecordRepo()
	pub := &recordingPublisher{}
	cache := newMemoryCache()
	svc := NewBattleRecordService(repo, pub, cache, log.Discard())
	ctx := context.Background()

	result := battletest.Example()
	result.Rewards = []byte(`{"gold":120}`)
	cache.data[ReportCacheKey(result.BattleID)] = []byte(`{}`)

	summary, err := svc.Record(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TurnCount)
	assert.Equal(t, "challenger_wins", summary.Outcome)
	assert.False(t, cache.has(ReportCacheKey(result.BattleID)), "重新归档后旧战报应失效")
	assert.Equal(t, []string{notify.SubjectBattleResultRecorded}, pub.subjects())

	loaded, err := svc.Get(ctx, result.BattleID)
	require.NoError(t, err)
	assert.Equal(t, result.Turns, loaded.Turns)
	assert.JSONEq(t, `{"gold":120}`, string(loaded.Rewards))

	list, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result.BattleID, list[0].BattleID)
}

// TestBattleRecordService_RecordRejects 非法输入不落库
func TestBattleRecordService_RecordRejects(t *testing.T) {
	repo := newMemoryRecordRepo()
	svc := NewBattleRecordService(repo, nil, nil, log.Discard())
	ctx := context.Background()

	_, err := svc.Record(ctx, nil)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeInvalidParams))

	noID := battletest.Example()
	noID.BattleID = "  "
	_, err = svc.Record(ctx, noID)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeInvalidParams))

	gap := battletest.Example()
	gap.Turns[1].SequenceIndex = 7
	_, err = svc.Record(ctx, gap)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))

	assert.Empty(t, repo.records)
}

// TestBattleRecordService_PublishFailureIsNotFatal 事件发布失败不影响归档
func TestBattleRecordService_PublishFailureIsNotFatal(t *testing.T) {
	svc := NewBattleRecordService(newMemoryRecordRepo(), &recordingPublisher{err: errors.New("nats down")}, nil, log.Discard())
	_, err := svc.Record(context.Background(), battletest.Example())
	assert.NoError(t, err)
}

// TestBattleRecordService_Get 错误映射
func TestBattleRecordService_Get(t *testing.T) {
	repo := newMemoryRecordRepo()
	svc := NewBattleRecordService(repo, nil, nil, log.Discard())
	ctx := context.Background()

	_, err := svc.Get(ctx, "missing")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleNotFound))

	_, err = svc.Get(ctx, "")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeInvalidParams))

	repo.err = errors.New("connection reset")
	_, err = svc.Get(ctx, "any")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeDatabaseError))

	repo.err = nil
	_, err = svc.Record(ctx, battletest.Example())
	require.NoError(t, err)
	repo.records["battle-test"].Result = []byte(`{"turns":`)
	_, err = svc.Get(ctx, "battle-test")
	assert.True(t, xerrors.IsCode(err, xerrors.CodeDataIntegrityError))
}
