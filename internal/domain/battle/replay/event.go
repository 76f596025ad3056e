package replay

import "tsu-arena/internal/domain/battle"

// Phase 回放阶段
type Phase string

const (
	PhaseIntro    Phase = "intro"
	PhaseFighting Phase = "fighting"
	PhaseResult   Phase = "result"
)

// EventKind 单个回合的瞬时提示类型
type EventKind string

const (
	EventDodge    EventKind = "dodge"
	EventHit      EventKind = "hit"
	EventCritical EventKind = "critical"
	EventHeal     EventKind = "heal"
	EventAction   EventKind = "action"
)

// TickEvent 一次 tick 产生的提示，由表现层决定如何播放
type TickEvent struct {
	Sequence int         `json:"sequence"`
	Kind     EventKind   `json:"kind"`
	Attacker battle.Side `json:"attacker"`
	Defender battle.Side `json:"defender"`
	// Target 提示显示在哪一方：闪避/命中为防守方，治疗/其他动作为出手方
	Target   battle.Side `json:"target"`
	Damage   int64       `json:"damage"`
	Heal     int64       `json:"heal"`
	Critical bool        `json:"critical"`
	Skill    string      `json:"skill"`
}

// newTickEvent 根据回合记录生成提示
func newTickEvent(t battle.TurnRecord) TickEvent {
	ev := TickEvent{
		Sequence: t.SequenceIndex,
		Attacker: t.Attacker,
		Defender: t.Defender(),
		Target:   t.Defender(),
		Skill:    battle.ResolveSkillLabel(t),
	}

	switch {
	case t.IsDodged:
		ev.Kind = EventDodge
	case t.Damage > 0:
		ev.Kind = EventHit
		ev.Damage = t.Damage
		ev.Heal = t.Heal
		if t.IsCritical {
			ev.Kind = EventCritical
			ev.Critical = true
		}
	case t.Heal > 0:
		ev.Kind = EventHeal
		ev.Heal = t.Heal
		ev.Target = t.Attacker
	default:
		ev.Kind = EventAction
		ev.Target = t.Attacker
	}
	return ev
}

// Listener 订阅回放过程。OnComplete 每个 Driver 只会被调用一次。
type Listener interface {
	OnTick(ev TickEvent)
	OnComplete(view View)
}

// ListenerFuncs 以函数形式实现 Listener，未设置的回调忽略
type ListenerFuncs struct {
	Tick     func(ev TickEvent)
	Complete func(view View)
}

func (f ListenerFuncs) OnTick(ev TickEvent) {
	if f.Tick != nil {
		f.Tick(ev)
	}
}

func (f ListenerFuncs) OnComplete(view View) {
	if f.Complete != nil {
		f.Complete(view)
	}
}
