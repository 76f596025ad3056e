// Package battle 定义战斗回放所消费的战斗日志模型：双方快照、有序回合列表与结果。
// 日志由外部战斗结算服务产出，本包只负责描述与校验，不做任何结算。
package battle

import "encoding/json"

// Side 战斗中的一方
type Side string

const (
	SideChallenger Side = "challenger"
	SideOpponent   Side = "opponent"
)

// Valid 是否为已知阵营
func (s Side) Valid() bool {
	return s == SideChallenger || s == SideOpponent
}

// Opposite 返回另一方
func (s Side) Opposite() Side {
	if s == SideChallenger {
		return SideOpponent
	}
	return SideChallenger
}

// Outcome 战斗结果
type Outcome string

const (
	OutcomeChallengerWins Outcome = "challenger_wins"
	OutcomeOpponentWins   Outcome = "opponent_wins"
	OutcomeDraw           Outcome = "draw"
)

// Winner 返回胜者；平局时 ok 为 false
func (o Outcome) Winner() (Side, bool) {
	switch o {
	case OutcomeChallengerWins:
		return SideChallenger, true
	case OutcomeOpponentWins:
		return SideOpponent, true
	default:
		return "", false
	}
}

// Identity 展示用身份信息
type Identity struct {
	Name   string `json:"name" validate:"max=64"`
	Avatar string `json:"avatar,omitempty"`
}

// CombatantSnapshot 战斗开始时的一方快照，战斗期间不可变
type CombatantSnapshot struct {
	Identity  Identity `json:"identity"`
	MaxHealth int64    `json:"max_health" validate:"gt=0"`
	MaxMana   int64    `json:"max_mana" validate:"gt=0"`
	Role      Side     `json:"role" validate:"oneof=challenger opponent"`
}

// TurnRecord 回合记录。双方生命/法力为本回合结算后的权威值，回放以此为准。
// 法力字段缺省表示沿用上一回合的值。
type TurnRecord struct {
	SequenceIndex    int    `json:"sequence_index" validate:"gte=0"`
	Attacker         Side   `json:"attacker" validate:"oneof=challenger opponent"`
	IsDodged         bool   `json:"is_dodged"`
	Damage           int64  `json:"damage" validate:"gte=0"`
	Heal             int64  `json:"heal" validate:"gte=0"`
	IsCritical       bool   `json:"is_critical"`
	SkillUsed        string `json:"skill_used,omitempty" validate:"skill_label"`
	ChallengerHealth *int64 `json:"challenger_health" validate:"required,gte=0"`
	OpponentHealth   *int64 `json:"opponent_health" validate:"required,gte=0"`
	ChallengerMana   *int64 `json:"challenger_mana,omitempty" validate:"omitempty,gte=0"`
	OpponentMana     *int64 `json:"opponent_mana,omitempty" validate:"omitempty,gte=0"`
}

// Int64 返回指向 v 的指针，用于构造回合记录中的权威数值
func Int64(v int64) *int64 {
	return &v
}

// Defender 本回合的防守方
func (t TurnRecord) Defender() Side {
	return t.Attacker.Opposite()
}

// HealthOf 本回合结算后指定一方的生命值
func (t TurnRecord) HealthOf(side Side) int64 {
	p := t.OpponentHealth
	if side == SideChallenger {
		p = t.ChallengerHealth
	}
	if p == nil {
		return 0
	}
	return *p
}

// ManaOf 本回合结算后指定一方的法力值；未携带时 ok 为 false
func (t TurnRecord) ManaOf(side Side) (int64, bool) {
	p := t.OpponentMana
	if side == SideChallenger {
		p = t.ChallengerMana
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// KnockedOut 本回合结算后是否有一方生命归零
func (t TurnRecord) KnockedOut() bool {
	return t.HealthOf(SideChallenger) <= 0 || t.HealthOf(SideOpponent) <= 0
}

// Effective 本回合是否产生效果（未被闪避）
func (t TurnRecord) Effective() bool {
	return !t.IsDodged
}

// BattleResult 完整的战斗结果，构造后只读
type BattleResult struct {
	BattleID   string            `json:"battle_id,omitempty" validate:"max=128"`
	BattleCode string            `json:"battle_code,omitempty" validate:"max=128"`
	Challenger CombatantSnapshot `json:"challenger"`
	Opponent   CombatantSnapshot `json:"opponent"`
	Turns      []TurnRecord      `json:"turns" validate:"dive"`
	Outcome    Outcome           `json:"outcome" validate:"oneof=challenger_wins opponent_wins draw"`
	// Rewards 奖励数据，原样透传
	Rewards json.RawMessage `json:"rewards,omitempty"`
}

// Snapshot 返回指定一方的快照
func (r *BattleResult) Snapshot(side Side) CombatantSnapshot {
	if side == SideChallenger {
		return r.Challenger
	}
	return r.Opponent
}
