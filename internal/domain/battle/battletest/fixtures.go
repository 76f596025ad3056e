// Package battletest 提供测试用战斗日志
package battletest

import "tsu-arena/internal/domain/battle"

// Snapshot 构造一方快照
func Snapshot(role battle.Side, name string, maxHealth, maxMana int64) battle.CombatantSnapshot {
	return battle.CombatantSnapshot{
		Identity:  battle.Identity{Name: name},
		MaxHealth: maxHealth,
		MaxMana:   maxMana,
		Role:      role,
	}
}

// Turn 构造一个回合，双方生命为结算后的权威值
func Turn(seq int, attacker battle.Side, damage int64, challengerHP, opponentHP int64) battle.TurnRecord {
	return battle.TurnRecord{
		SequenceIndex:    seq,
		Attacker:         attacker,
		Damage:           damage,
		ChallengerHealth: battle.Int64(challengerHP),
		OpponentHealth:   battle.Int64(opponentHP),
	}
}

// Result 以两个 100/50 的快照包装回合列表
func Result(outcome battle.Outcome, turns ...battle.TurnRecord) *battle.BattleResult {
	return &battle.BattleResult{
		BattleID:   "battle-test",
		Challenger: Snapshot(battle.SideChallenger, "青云", 100, 50),
		Opponent:   Snapshot(battle.SideOpponent, "玄冥", 100, 50),
		Turns:      turns,
		Outcome:    outcome,
	}
}

// Example 三回合挑战者获胜：暴击、被闪避、致命一击
func Example() *battle.BattleResult {
	crit := Turn(0, battle.SideChallenger, 30, 100, 70)
	crit.IsCritical = true

	dodged := Turn(1, battle.SideOpponent, 0, 100, 70)
	dodged.IsDodged = true

	finisher := Turn(2, battle.SideChallenger, 70, 100, 0)

	return Result(battle.OutcomeChallengerWins, crit, dodged, finisher)
}

// Empty 没有任何回合的战斗
func Empty() *battle.BattleResult {
	return Result(battle.OutcomeDraw)
}
