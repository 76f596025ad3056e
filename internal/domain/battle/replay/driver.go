// Package replay 将一场已结算的战斗按回合回放：intro → fighting → result。
//
// Driver 不持有时钟，也不做任何 I/O，调用方按自己的节奏调用
// AdvanceToFighting / AdvanceOneTick / Skip。Driver 不是并发安全的，
// 多个 goroutine 共享时由调用方加锁。
package replay

import (
	"encoding/json"

	"tsu-arena/internal/domain/battle"
	"tsu-arena/internal/domain/battle/stats"
	"tsu-arena/internal/pkg/xerrors"
)

// Option Driver 构造选项
type Option func(*Driver)

// WithListener 注册回放监听器
func WithListener(l Listener) Option {
	return func(d *Driver) {
		if l != nil {
			d.listeners = append(d.listeners, l)
		}
	}
}

// Driver 单场战斗的回放状态机
type Driver struct {
	result     *battle.BattleResult
	turns      []battle.TurnRecord
	phase      Phase
	cursor     int
	challenger combatantState
	opponent   combatantState
	last       *TickEvent
	completed  bool
	listeners  []Listener
}

// NewDriver 校验战斗日志并返回处于 intro 阶段的 Driver。
// 不合法的日志直接拒绝，返回 CodeBattleLogInvalid。
func NewDriver(result *battle.BattleResult, opts ...Option) (*Driver, error) {
	if result == nil {
		return nil, xerrors.NewBattleLogError(-1, "result", "不能为空")
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	owned := cloneResult(result)
	d := &Driver{
		result: owned,
		turns:  owned.Turns,
		phase:  PhaseIntro,
		challenger: combatantState{
			health: owned.Challenger.MaxHealth,
			mana:   owned.Challenger.MaxMana,
		},
		opponent: combatantState{
			health: owned.Opponent.MaxHealth,
			mana:   owned.Opponent.MaxMana,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// AdvanceToFighting intro → fighting。没有回合时直接进入 result。
// 不在 intro 阶段时不做任何事并返回 false。
func (d *Driver) AdvanceToFighting() bool {
	if d.phase != PhaseIntro {
		return false
	}
	if len(d.turns) == 0 {
		d.finish()
		return true
	}
	d.phase = PhaseFighting
	return true
}

// AdvanceOneTick 应用下一个回合。一方生命归零或回合耗尽时进入 result。
// 不在 fighting 阶段时不做任何事并返回 false。
func (d *Driver) AdvanceOneTick() bool {
	if d.phase != PhaseFighting {
		return false
	}

	turn := d.turns[d.cursor]
	d.apply(turn)
	ev := newTickEvent(turn)
	d.last = &ev
	d.cursor++

	for _, l := range d.listeners {
		l.OnTick(ev)
	}

	if turn.KnockedOut() || d.cursor == len(d.turns) {
		d.finish()
	}
	return true
}

// Skip 直接跳到最终状态：应用最终生效回合（第一个有一方生命归零的回合，否则为最后一个回合）
// 的权威数值并进入 result，中间回合不再产生提示。已在 result 时不做任何事并返回 false。
func (d *Driver) Skip() bool {
	if d.phase == PhaseResult {
		return false
	}

	if final := d.finalIndex(); final >= d.cursor {
		for i := d.cursor; i <= final; i++ {
			d.apply(d.turns[i])
		}
		ev := newTickEvent(d.turns[final])
		d.last = &ev
		d.cursor = final + 1
	}
	d.finish()
	return true
}

// View 当前视图的副本
func (d *Driver) View() View {
	v := View{
		Phase:      d.phase,
		Cursor:     d.cursor,
		TotalTurns: len(d.turns),
		Challenger: newCombatantView(d.result.Challenger, d.challenger),
		Opponent:   newCombatantView(d.result.Opponent, d.opponent),
		Complete:   d.phase == PhaseResult,
	}
	if d.last != nil {
		ev := *d.last
		v.LastEvent = &ev
	}
	if v.Complete {
		v.Outcome = d.result.Outcome
		if len(d.result.Rewards) > 0 {
			v.Rewards = append(json.RawMessage(nil), d.result.Rewards...)
		}
	}
	return v
}

// Phase 当前阶段
func (d *Driver) Phase() Phase {
	return d.phase
}

// Done 是否已进入 result
func (d *Driver) Done() bool {
	return d.phase == PhaseResult
}

// Turns 完整回合列表的副本，供统计使用
func (d *Driver) Turns() []battle.TurnRecord {
	return cloneTurns(d.turns)
}

// Report 对完整回合列表做统计，与当前回放进度无关
func (d *Driver) Report() stats.Report {
	return stats.Aggregate(d.turns)
}

// Result 战斗日志的副本
func (d *Driver) Result() *battle.BattleResult {
	return cloneResult(d.result)
}

// apply 拷贝回合的权威数值；法力缺省时沿用上一回合
func (d *Driver) apply(t battle.TurnRecord) {
	d.challenger.health = t.HealthOf(battle.SideChallenger)
	d.opponent.health = t.HealthOf(battle.SideOpponent)
	if mana, ok := t.ManaOf(battle.SideChallenger); ok {
		d.challenger.mana = mana
	}
	if mana, ok := t.ManaOf(battle.SideOpponent); ok {
		d.opponent.mana = mana
	}
}

// finalIndex 最终生效回合的下标；没有回合时为 -1
func (d *Driver) finalIndex() int {
	for i := d.cursor; i < len(d.turns); i++ {
		if d.turns[i].KnockedOut() {
			return i
		}
	}
	return len(d.turns) - 1
}

func (d *Driver) finish() {
	d.phase = PhaseResult
	if d.completed {
		return
	}
	d.completed = true

	view := d.View()
	for _, l := range d.listeners {
		l.OnComplete(view)
	}
}

func cloneResult(r *battle.BattleResult) *battle.BattleResult {
	out := *r
	out.Turns = cloneTurns(r.Turns)
	if r.Rewards != nil {
		out.Rewards = append(json.RawMessage(nil), r.Rewards...)
	}
	return &out
}

func cloneTurns(turns []battle.TurnRecord) []battle.TurnRecord {
	out := make([]battle.TurnRecord, len(turns))
	for i, t := range turns {
		t.ChallengerHealth = cloneInt(t.ChallengerHealth)
		t.OpponentHealth = cloneInt(t.OpponentHealth)
		t.ChallengerMana = cloneInt(t.ChallengerMana)
		t.OpponentMana = cloneInt(t.OpponentMana)
		out[i] = t
	}
	return out
}

func cloneInt(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
