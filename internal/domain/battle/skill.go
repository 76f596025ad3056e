package battle

import "strings"

const (
	// LabelBasicAttack 未声明技能且造成伤害
	LabelBasicAttack = "basic attack"
	// LabelOtherAction 未声明技能且无伤害
	LabelOtherAction = "other action"
)

// ResolveSkillLabel 回合的技能标签：显式技能名优先，否则按是否造成伤害归类
func ResolveSkillLabel(t TurnRecord) string {
	if label := strings.TrimSpace(t.SkillUsed); label != "" {
		return label
	}
	if t.Damage > 0 {
		return LabelBasicAttack
	}
	return LabelOtherAction
}
