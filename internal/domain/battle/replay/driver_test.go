package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/battletest"
	"tsu-arena/internal/pkg/xerrors"
)

// recorder 记录监听器回调
type recorder struct {
	ticks     []TickEvent
	completes []View
}

func (r *recorder) OnTick(ev TickEvent) { r.ticks = append(r.ticks, ev) }
func (r *recorder) OnComplete(view View) { r.completes = append(r.completes, view) }

func newDriver(t *testing.T, result *battle.BattleResult, opts ...Option) *Driver {
	t.Helper()
	d, err := NewDriver(result, opts...)
	require.NoError(t, err)
	return d
}

func TestExampleScenario(t *testing.T) {
	rec := &recorder{}
	d := newDriver(t, battletest.Example(), WithListener(rec))

	assert.Equal(t, PhaseIntro, d.Phase())
	assert.Equal(t, int64(100), d.View().Opponent.Health)

	require.True(t, d.AdvanceToFighting())
	assert.Equal(t, PhaseFighting, d.Phase())

	require.True(t, d.AdvanceOneTick())
	v := d.View()
	assert.Equal(t, int64(70), v.Opponent.Health)
	assert.Equal(t, 1, v.Cursor)
	require.NotNil(t, v.LastEvent)
	assert.Equal(t, EventCritical, v.LastEvent.Kind)
	assert.Equal(t, battle.SideOpponent, v.LastEvent.Target)
	assert.Equal(t, 1, d.Report().Challenger.CriticalHitCount)

	require.True(t, d.AdvanceOneTick())
	v = d.View()
	assert.Equal(t, int64(70), v.Opponent.Health)
	assert.Equal(t, EventDodge, v.LastEvent.Kind)
	assert.Equal(t, battle.SideChallenger, v.LastEvent.Target)

	require.True(t, d.AdvanceOneTick())
	v = d.View()
	assert.Equal(t, int64(0), v.Opponent.Health)
	assert.Equal(t, PhaseResult, v.Phase)
	assert.Equal(t, 3, v.Cursor)
	assert.True(t, v.Complete)
	assert.Equal(t, battle.OutcomeChallengerWins, v.Outcome)

	report := d.Report()
	assert.Equal(t, int64(100), report.Challenger.DamageDealt)
	assert.Equal(t, 1, report.Challenger.CriticalHitCount)
	assert.Equal(t, 1, report.Challenger.DodgeCount)
	assert.Equal(t, 0, report.Opponent.DodgeCount)
	assert.Equal(t, int64(100), report.Opponent.DamageTaken)

	assert.Len(t, rec.ticks, 3)
	require.Len(t, rec.completes, 1)
	assert.Equal(t, v, rec.completes[0])
}

func longBattle() *battle.BattleResult {
	t0 := battletest.Turn(0, battle.SideChallenger, 20, 100, 80)
	t0.ChallengerMana = battle.Int64(40)
	t0.SkillUsed = "破军"

	t1 := battletest.Turn(1, battle.SideOpponent, 0, 100, 95)
	t1.Heal = 15
	t1.OpponentMana = battle.Int64(35)

	t2 := battletest.Turn(2, battle.SideChallenger, 0, 100, 95)

	t3 := battletest.Turn(3, battle.SideOpponent, 30, 70, 95)
	t3.IsCritical = true

	t4 := battletest.Turn(4, battle.SideChallenger, 25, 70, 70)
	t4.ChallengerMana = battle.Int64(20)

	return battletest.Result(battle.OutcomeDraw, t0, t1, t2, t3, t4)
}

func TestDeterminismTickVersusSkip(t *testing.T) {
	for name, fixture := range map[string]func() *battle.BattleResult{
		"example": battletest.Example,
		"long":    longBattle,
	} {
		t.Run(name, func(t *testing.T) {
			ticked := newDriver(t, fixture())
			ticked.AdvanceToFighting()
			for i := 0; i < len(fixture().Turns); i++ {
				ticked.AdvanceOneTick()
			}

			skipped := newDriver(t, fixture())
			skipped.AdvanceToFighting()
			require.True(t, skipped.Skip())

			assert.Equal(t, ticked.View(), skipped.View())
		})
	}
}

func TestManaCarriesForward(t *testing.T) {
	d := newDriver(t, longBattle())
	d.AdvanceToFighting()

	d.AdvanceOneTick()
	assert.Equal(t, int64(40), d.View().Challenger.Mana)
	assert.Equal(t, int64(50), d.View().Opponent.Mana)

	d.AdvanceOneTick()
	v := d.View()
	assert.Equal(t, int64(40), v.Challenger.Mana)
	assert.Equal(t, int64(35), v.Opponent.Mana)
	assert.Equal(t, EventHeal, v.LastEvent.Kind)
	assert.Equal(t, battle.SideOpponent, v.LastEvent.Target)

	d.AdvanceOneTick()
	assert.Equal(t, EventAction, d.View().LastEvent.Kind)
	assert.Equal(t, battle.LabelOtherAction, d.View().LastEvent.Skill)
}

func TestCursorMonotonic(t *testing.T) {
	d := newDriver(t, longBattle())
	ops := []func() bool{d.AdvanceOneTick, d.AdvanceToFighting, d.AdvanceToFighting, d.AdvanceOneTick, d.AdvanceOneTick, d.Skip, d.AdvanceOneTick, d.Skip}

	prev := d.View().Cursor
	for _, op := range ops {
		op()
		cur := d.View().Cursor
		assert.GreaterOrEqual(t, cur, prev)
		assert.LessOrEqual(t, cur, d.View().TotalTurns)
		if d.Phase() == PhaseFighting {
			assert.Less(t, cur, d.View().TotalTurns, "fighting 阶段必须仍有待播回合")
		}
		prev = cur
	}
	assert.Equal(t, 5, prev)
}

func TestEarlyTermination(t *testing.T) {
	result := battletest.Result(battle.OutcomeOpponentWins,
		battletest.Turn(0, battle.SideOpponent, 60, 40, 100),
		battletest.Turn(1, battle.SideOpponent, 40, 0, 100),
		battletest.Turn(2, battle.SideChallenger, 50, 0, 50),
	)

	rec := &recorder{}
	d := newDriver(t, result, WithListener(rec))
	d.AdvanceToFighting()
	d.AdvanceOneTick()
	d.AdvanceOneTick()

	v := d.View()
	assert.Equal(t, PhaseResult, v.Phase)
	assert.Equal(t, 2, v.Cursor)
	assert.Equal(t, int64(100), v.Opponent.Health, "第三回合不应被应用")
	assert.False(t, d.AdvanceOneTick())
	assert.Len(t, rec.ticks, 2)

	skipped := newDriver(t, result)
	skipped.AdvanceToFighting()
	skipped.Skip()
	assert.Equal(t, v, skipped.View())
}

func TestSkipIdempotent(t *testing.T) {
	rec := &recorder{}
	d := newDriver(t, longBattle(), WithListener(rec))
	d.AdvanceToFighting()
	d.AdvanceOneTick()

	require.True(t, d.Skip())
	once := d.View()
	assert.False(t, d.Skip())
	assert.Equal(t, once, d.View())

	assert.Len(t, rec.ticks, 1, "跳过不产生逐回合提示")
	assert.Len(t, rec.completes, 1)
}

func TestSkipFromIntro(t *testing.T) {
	d := newDriver(t, battletest.Example())
	require.True(t, d.Skip())
	assert.Equal(t, PhaseResult, d.Phase())
	assert.Equal(t, 3, d.View().Cursor)
	assert.False(t, d.AdvanceToFighting())
}

func TestEmptyLog(t *testing.T) {
	rec := &recorder{}
	d := newDriver(t, battletest.Empty(), WithListener(rec))

	assert.False(t, d.AdvanceOneTick())
	require.True(t, d.AdvanceToFighting())

	v := d.View()
	assert.Equal(t, PhaseResult, v.Phase)
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, int64(100), v.Challenger.Health)
	assert.Equal(t, int64(50), v.Opponent.Mana)
	assert.Nil(t, v.LastEvent)
	assert.Equal(t, battle.OutcomeDraw, v.Outcome)
	assert.Len(t, rec.completes, 1)

	report := d.Report()
	assert.Zero(t, report.Challenger.DamageDealt)
	assert.Empty(t, report.Opponent.BySkill)

	skip := newDriver(t, battletest.Empty())
	require.True(t, skip.Skip())
	assert.Equal(t, v, skip.View())
}

func TestTerminalOperationsAreNoops(t *testing.T) {
	d := newDriver(t, battletest.Example())
	assert.True(t, d.AdvanceToFighting())
	assert.False(t, d.AdvanceToFighting())

	d.Skip()
	final := d.View()
	assert.False(t, d.AdvanceOneTick())
	assert.False(t, d.AdvanceToFighting())
	assert.False(t, d.Skip())
	assert.Equal(t, final, d.View())
}

func TestRejectsMalformedLog(t *testing.T) {
	result := battletest.Example()
	result.Turns[1].SequenceIndex = 3

	_, err := NewDriver(result)
	require.Error(t, err)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))

	_, err = NewDriver(nil)
	assert.True(t, xerrors.IsCode(err, xerrors.CodeBattleLogInvalid))
}

func TestDriverOwnsItsInput(t *testing.T) {
	result := battletest.Example()
	d := newDriver(t, result)

	*result.Turns[0].OpponentHealth = 1
	result.Turns[2].Damage = 999

	d.AdvanceToFighting()
	d.AdvanceOneTick()
	assert.Equal(t, int64(70), d.View().Opponent.Health)
	assert.Equal(t, int64(100), d.Report().Challenger.DamageDealt)

	turns := d.Turns()
	turns[0].Damage = 0
	assert.Equal(t, int64(30), d.Turns()[0].Damage)
}

func TestDisplayRatiosAreClamped(t *testing.T) {
	assert.Equal(t, 0.0, ratio(-5, 100))
	assert.Equal(t, 1.0, ratio(150, 100))
	assert.Equal(t, 0.0, ratio(10, 0))
	assert.InDelta(t, 0.7, ratio(70, 100), 1e-9)
}

func TestListenerFuncs(t *testing.T) {
	var ticks, completes int
	d := newDriver(t, battletest.Example(), WithListener(ListenerFuncs{
		Tick:     func(TickEvent) { ticks++ },
		Complete: func(View) { completes++ },
	}), WithListener(ListenerFuncs{}), WithListener(nil))

	d.AdvanceToFighting()
	for d.AdvanceOneTick() {
	}
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, completes)
}
