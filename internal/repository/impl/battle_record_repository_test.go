package impl

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/repository/interfaces"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TSU_GAME_DATABASE_URL")
	if dsn == "" {
		t.Skip("TSU_GAME_DATABASE_URL 未设置")
	}
	db, err := sql.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBattleRecordRepositoryRoundTrip(t *testing.T) {
	db := openTestDB(t)
	repo := NewBattleRecordRepository(db)
	ctx := context.Background()

	battleID := "test-" + uuid.NewString()
	rec := &interfaces.BattleRecord{
		BattleID:       battleID,
		BattleCode:     null.StringFrom("arena-1"),
		Outcome:        "challenger_wins",
		ChallengerName: "青云",
		OpponentName:   "玄冥",
		TurnCount:      3,
		Result:         []byte(`{"turns":[]}`),
		Rewards:        null.JSONFrom([]byte(`{"gold":10}`)),
	}
	require.NoError(t, repo.Upsert(ctx, rec))
	t.Cleanup(func() {
		_, _ = db.ExecContext(ctx, "DELETE FROM game_runtime.battle_records WHERE battle_id = $1", battleID)
	})

	rec.TurnCount = 4
	require.NoError(t, repo.Upsert(ctx, rec))

	got, err := repo.GetByBattleID(ctx, battleID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TurnCount)
	assert.Equal(t, "arena-1", got.BattleCode.String)
	assert.JSONEq(t, `{"gold":10}`, string(got.Rewards.JSON))

	_, err = repo.GetByBattleID(ctx, "missing-"+uuid.NewString())
	assert.ErrorIs(t, err, interfaces.ErrBattleRecordNotFound)

	recent, err := repo.ListRecent(ctx, 5)
	require.NoError(t, err)
	assert.NotEmpty(t, recent)
}
