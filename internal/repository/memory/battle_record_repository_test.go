package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/repository/interfaces"
)

func TestBattleRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewBattleRecordRepository()

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	require.NoError(t, repo.Upsert(ctx, &interfaces.BattleRecord{BattleID: "b-1", Outcome: "draw"}))
	require.NoError(t, repo.Upsert(ctx, &interfaces.BattleRecord{BattleID: "b-2", Outcome: "draw"}))

	first, err := repo.GetByBattleID(ctx, "b-1")
	require.NoError(t, err)

	// 覆盖写入保留创建时间
	require.NoError(t, repo.Upsert(ctx, &interfaces.BattleRecord{BattleID: "b-1", Outcome: "challenger_wins"}))
	got, err := repo.GetByBattleID(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "challenger_wins", got.Outcome)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(first.UpdatedAt))

	recent, err := repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "b-2", recent[0].BattleID)

	_, err = repo.GetByBattleID(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrBattleRecordNotFound)
}
