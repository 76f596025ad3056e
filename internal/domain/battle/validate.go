package battle

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	playground "github.com/go-playground/validator/v10"

	"tsu-arena/internal/pkg/validator"
	"tsu-arena/internal/pkg/xerrors"
)

var turnNamespace = regexp.MustCompile(`turns\[(\d+)\]`)

// Validate 校验战斗日志是否满足生产方约定。
// 任何不一致都直接拒绝，权威数值不做修正。
func (r *BattleResult) Validate() error {
	if r == nil {
		return xerrors.NewBattleLogError(-1, "result", "不能为空")
	}

	if err := validator.Struct(r); err != nil {
		return structError(err)
	}

	if r.Challenger.Role != SideChallenger {
		return xerrors.NewBattleLogError(-1, "challenger.role", "必须为 challenger")
	}
	if r.Opponent.Role != SideOpponent {
		return xerrors.NewBattleLogError(-1, "opponent.role", "必须为 opponent")
	}

	for i := range r.Turns {
		if err := r.validateTurn(i); err != nil {
			return err
		}
	}
	return nil
}

func (r *BattleResult) validateTurn(i int) error {
	t := r.Turns[i]
	if t.SequenceIndex != i {
		return xerrors.NewBattleLogError(i, "sequence_index", fmt.Sprintf("不连续: 期望 %d, 实际 %d", i, t.SequenceIndex))
	}

	for _, side := range []Side{SideChallenger, SideOpponent} {
		snap := r.Snapshot(side)
		if hp := t.HealthOf(side); hp > snap.MaxHealth {
			return xerrors.NewBattleLogError(i, string(side)+"_health", fmt.Sprintf("超出生命上限: %d > %d", hp, snap.MaxHealth))
		}
		if mana, ok := t.ManaOf(side); ok && mana > snap.MaxMana {
			return xerrors.NewBattleLogError(i, string(side)+"_mana", fmt.Sprintf("超出法力上限: %d > %d", mana, snap.MaxMana))
		}
	}
	return nil
}

// structError 将结构体校验错误转换为战斗日志错误，尽量定位到具体回合
func structError(err error) error {
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return xerrors.NewWithError(xerrors.CodeBattleLogInvalid, "战斗日志不合法", err)
	}

	fe := fieldErrs[0]
	turn := -1
	if m := turnNamespace.FindStringSubmatch(fe.Namespace()); m != nil {
		turn, _ = strconv.Atoi(m[1])
	}
	return xerrors.NewBattleLogError(turn, fe.Field(), validator.TranslateValidationError(fieldErrs[:1]))
}
