package impl

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/aarondl/sqlboiler/v4/boil"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"

	"tsu-arena/internal/repository/interfaces"
)

const maxListLimit = 100

type battleRecordRepositoryImpl struct {
	db boil.ContextExecutor
}

// NewBattleRecordRepository 创建 BattleRecord 仓储实例。
func NewBattleRecordRepository(db boil.ContextExecutor) interfaces.BattleRecordRepository {
	return &battleRecordRepositoryImpl{db: db}
}

func (r *battleRecordRepositoryImpl) Upsert(ctx context.Context, rec *interfaces.BattleRecord) error {
	if rec == nil {
		return errors.New("battle record is nil")
	}

	query := `
		INSERT INTO game_runtime.battle_records (
			battle_id, battle_code, outcome, challenger_name, opponent_name,
			turn_count, result, rewards
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (battle_id) DO UPDATE SET
			battle_code     = EXCLUDED.battle_code,
			outcome         = EXCLUDED.outcome,
			challenger_name = EXCLUDED.challenger_name,
			opponent_name   = EXCLUDED.opponent_name,
			turn_count      = EXCLUDED.turn_count,
			result          = EXCLUDED.result,
			rewards         = EXCLUDED.rewards,
			updated_at      = NOW()
	`

	_, err := queries.Raw(query,
		rec.BattleID,
		rec.BattleCode,
		rec.Outcome,
		rec.ChallengerName,
		rec.OpponentName,
		rec.TurnCount,
		rec.Result,
		rec.Rewards,
	).ExecContext(ctx, r.db)
	if err != nil {
		return errors.Wrap(err, "upsert battle record")
	}
	return nil
}

func (r *battleRecordRepositoryImpl) GetByBattleID(ctx context.Context, battleID string) (*interfaces.BattleRecord, error) {
	query := `
		SELECT battle_id, battle_code, outcome, challenger_name, opponent_name,
		       turn_count, result, rewards, created_at, updated_at
		FROM game_runtime.battle_records
		WHERE battle_id = $1
	`

	var rec interfaces.BattleRecord
	if err := queries.Raw(query, battleID).Bind(ctx, r.db, &rec); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, interfaces.ErrBattleRecordNotFound
		}
		return nil, errors.Wrapf(err, "get battle record %s", battleID)
	}
	return &rec, nil
}

func (r *battleRecordRepositoryImpl) ListRecent(ctx context.Context, limit int) ([]*interfaces.BattleRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := `
		SELECT battle_id, battle_code, outcome, challenger_name, opponent_name,
		       turn_count, result, rewards, created_at, updated_at
		FROM game_runtime.battle_records
		ORDER BY created_at DESC
		LIMIT $1
	`

	var records []*interfaces.BattleRecord
	if err := queries.Raw(query, limit).Bind(ctx, r.db, &records); err != nil {
		return nil, errors.Wrap(err, "list battle records")
	}
	return records, nil
}
