// Package stats 汇总战斗日志，生成双方按技能拆分的战后统计。
package stats

import (
	"sort"

	"tsu-arena/internal/domain/battle"
)

// SkillStats 单个技能标签下的统计
type SkillStats struct {
	Count        int   `json:"count"`
	TotalDamage  int64 `json:"total_damage"`
	TotalHealing int64 `json:"total_healing"`
	MaxSingleHit int64 `json:"max_single_hit"`
}

// CombatantStats 一方的战斗统计
type CombatantStats struct {
	DamageDealt      int64                 `json:"damage_dealt"`
	DamageTaken      int64                 `json:"damage_taken"`
	HealingDone      int64                 `json:"healing_done"`
	CriticalHitCount int                   `json:"critical_hit_count"`
	DodgeCount       int                   `json:"dodge_count"`
	BySkill          map[string]SkillStats `json:"by_skill"`
}

// SkillNames 技能标签按总伤害降序排列，伤害相同时按名称升序
func (c CombatantStats) SkillNames() []string {
	names := make([]string, 0, len(c.BySkill))
	for name := range c.BySkill {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := c.BySkill[names[i]], c.BySkill[names[j]]
		if a.TotalDamage != b.TotalDamage {
			return a.TotalDamage > b.TotalDamage
		}
		return names[i] < names[j]
	})
	return names
}

// TurnsTaken 本方有效出手次数（不含被闪避的回合）
func (c CombatantStats) TurnsTaken() int {
	total := 0
	for _, s := range c.BySkill {
		total += s.Count
	}
	return total
}

// Report 双方统计
type Report struct {
	Challenger CombatantStats `json:"challenger"`
	Opponent   CombatantStats `json:"opponent"`
}

// For 返回指定一方的统计
func (r *Report) For(side battle.Side) *CombatantStats {
	if side == battle.SideChallenger {
		return &r.Challenger
	}
	return &r.Opponent
}

// Aggregate 单次遍历完整的回合列表。纯函数，不修改入参。
func Aggregate(turns []battle.TurnRecord) Report {
	report := Report{
		Challenger: CombatantStats{BySkill: map[string]SkillStats{}},
		Opponent:   CombatantStats{BySkill: map[string]SkillStats{}},
	}

	for _, t := range turns {
		defender := report.For(t.Defender())
		if t.IsDodged {
			defender.DodgeCount++
			continue
		}

		attacker := report.For(t.Attacker)
		attacker.DamageDealt += t.Damage
		attacker.HealingDone += t.Heal
		defender.DamageTaken += t.Damage
		if t.IsCritical && t.Damage > 0 {
			attacker.CriticalHitCount++
		}

		label := battle.ResolveSkillLabel(t)
		bucket := attacker.BySkill[label]
		bucket.Count++
		bucket.TotalDamage += t.Damage
		bucket.TotalHealing += t.Heal
		if t.Damage > bucket.MaxSingleHit {
			bucket.MaxSingleHit = t.Damage
		}
		attacker.BySkill[label] = bucket
	}

	return report
}
