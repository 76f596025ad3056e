package battle_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/battletest"
	"tsu-arena/internal/pkg/xerrors"
)

func TestResolveSkillLabel(t *testing.T) {
	tests := []struct {
		name string
		turn battle.TurnRecord
		want string
	}{
		{"explicit skill", battle.TurnRecord{SkillUsed: "  烈焰斩 ", Damage: 10}, "烈焰斩"},
		{"damage without skill", battle.TurnRecord{Damage: 5}, battle.LabelBasicAttack},
		{"nothing happened", battle.TurnRecord{}, battle.LabelOtherAction},
		{"heal only", battle.TurnRecord{Heal: 8}, battle.LabelOtherAction},
		{"blank skill", battle.TurnRecord{SkillUsed: "   ", Damage: 3}, battle.LabelBasicAttack},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, battle.ResolveSkillLabel(tt.turn))
		})
	}
}

func TestSideHelpers(t *testing.T) {
	assert.Equal(t, battle.SideOpponent, battle.SideChallenger.Opposite())
	assert.Equal(t, battle.SideChallenger, battle.SideOpponent.Opposite())
	assert.False(t, battle.Side("spectator").Valid())

	turn := battletest.Turn(0, battle.SideOpponent, 10, 90, 100)
	assert.Equal(t, battle.SideChallenger, turn.Defender())
	assert.Equal(t, int64(90), turn.HealthOf(battle.SideChallenger))
	_, ok := turn.ManaOf(battle.SideOpponent)
	assert.False(t, ok)

	winner, ok := battle.OutcomeOpponentWins.Winner()
	assert.True(t, ok)
	assert.Equal(t, battle.SideOpponent, winner)
	_, ok = battle.OutcomeDraw.Winner()
	assert.False(t, ok)
}

func TestValidateAcceptsWellFormedLogs(t *testing.T) {
	require.NoError(t, battletest.Example().Validate())
	require.NoError(t, battletest.Empty().Validate())
}

func TestValidateRejectsMalformedLogs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *battle.BattleResult)
		turn   interface{}
	}{
		{"sequence gap", func(r *battle.BattleResult) { r.Turns[2].SequenceIndex = 5 }, 2},
		{"negative health", func(r *battle.BattleResult) { r.Turns[1].OpponentHealth = battle.Int64(-1) }, 1},
		{"missing health", func(r *battle.BattleResult) { r.Turns[0].ChallengerHealth = nil }, 0},
		{"health above max", func(r *battle.BattleResult) { r.Turns[0].ChallengerHealth = battle.Int64(101) }, 0},
		{"mana above max", func(r *battle.BattleResult) { r.Turns[1].OpponentMana = battle.Int64(51) }, 1},
		{"negative damage", func(r *battle.BattleResult) { r.Turns[0].Damage = -3 }, 0},
		{"unknown attacker", func(r *battle.BattleResult) { r.Turns[2].Attacker = "" }, 2},
		{"swapped roles", func(r *battle.BattleResult) { r.Challenger.Role = battle.SideOpponent }, nil},
		{"zero max health", func(r *battle.BattleResult) { r.Opponent.MaxHealth = 0 }, nil},
		{"unknown outcome", func(r *battle.BattleResult) { r.Outcome = "maybe" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := battletest.Example()
			tt.mutate(r)

			err := r.Validate()
			require.Error(t, err)
			assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))

			var appErr *xerrors.AppError
			require.ErrorAs(t, err, &appErr)
			if tt.turn == nil {
				_, ok := appErr.Context.Metadata["turn"]
				assert.False(t, ok)
			} else {
				assert.Equal(t, tt.turn, appErr.Context.Metadata["turn"])
			}
		})
	}
}

// 身份信息只用于展示，名称可以为空
func TestValidateAllowsEmptyIdentity(t *testing.T) {
	r := battletest.Example()
	r.Challenger.Identity = battle.Identity{}
	assert.NoError(t, r.Validate())

	r.Opponent.Identity.Name = strings.Repeat("名", 65)
	assert.True(t, xerrors.IsCode(r.Validate(), xerrors.CodeBattleLogInvalid))
}

func TestValidateDoesNotMutate(t *testing.T) {
	r := battletest.Example()
	before, err := json.Marshal(r)
	require.NoError(t, err)

	require.NoError(t, r.Validate())

	after, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, string(before), string(after))
}

func TestDecode(t *testing.T) {
	data, err := battle.Encode(battletest.Example())
	require.NoError(t, err)

	decoded, err := battle.Decode(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Turns, 3)

	_, err = battle.Decode([]byte(`{"turns": [`))
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))

	_, err = battle.Decode([]byte(`{"challenger":{"identity":{"name":"a"},"max_health":10,"max_mana":1,"role":"challenger"},
		"opponent":{"identity":{"name":"b"},"max_health":10,"max_mana":1,"role":"opponent"},
		"turns":[{"sequence_index":0,"attacker":"challenger","opponent_health":3}],"outcome":"draw"}`))
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))
}
