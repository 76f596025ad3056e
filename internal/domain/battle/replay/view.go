package replay

import (
	"encoding/json"

	"tsu-arena/internal/domain/battle"
)

// CombatantView 一方当前的展示状态
type CombatantView struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	Health    int64  `json:"health"`
	MaxHealth int64  `json:"max_health"`
	Mana      int64  `json:"mana"`
	MaxMana   int64  `json:"max_mana"`
	// 比例仅用于进度条，已限制在 [0, 1]
	HealthRatio float64 `json:"health_ratio"`
	ManaRatio   float64 `json:"mana_ratio"`
}

// View 只读的回放视图
type View struct {
	Phase      Phase         `json:"phase"`
	Cursor     int           `json:"cursor"`
	TotalTurns int           `json:"total_turns"`
	Challenger CombatantView `json:"challenger"`
	Opponent   CombatantView `json:"opponent"`
	// LastEvent 最近一个回合的提示，下一次 tick 时被替换
	LastEvent *TickEvent `json:"last_event,omitempty"`
	Complete  bool       `json:"complete"`

	// 以下字段仅在结果阶段给出
	Outcome battle.Outcome  `json:"outcome,omitempty"`
	Rewards json.RawMessage `json:"rewards,omitempty"`
}

// For 返回指定一方的视图
func (v View) For(side battle.Side) CombatantView {
	if side == battle.SideChallenger {
		return v.Challenger
	}
	return v.Opponent
}

// combatantState 一方的权威数值
type combatantState struct {
	health int64
	mana   int64
}

func newCombatantView(snap battle.CombatantSnapshot, st combatantState) CombatantView {
	return CombatantView{
		Name:        snap.Identity.Name,
		Avatar:      snap.Identity.Avatar,
		Health:      st.health,
		MaxHealth:   snap.MaxHealth,
		Mana:        st.mana,
		MaxMana:     snap.MaxMana,
		HealthRatio: ratio(st.health, snap.MaxHealth),
		ManaRatio:   ratio(st.mana, snap.MaxMana),
	}
}

func ratio(v, limit int64) float64 {
	if limit <= 0 || v <= 0 {
		return 0
	}
	if v >= limit {
		return 1
	}
	return float64(v) / float64(limit)
}
