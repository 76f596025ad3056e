package battle

import (
	"bytes"
	"encoding/json"

	"tsu-arena/internal/pkg/xerrors"
)

// Decode 解析并校验 JSON 格式的战斗日志
func Decode(data []byte) (*BattleResult, error) {
	var result BattleResult
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&result); err != nil {
		return nil, xerrors.NewWithError(xerrors.CodeBattleLogInvalid, "战斗日志格式错误", err)
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return &result, nil
}

// Encode 序列化战斗日志
func Encode(result *BattleResult) ([]byte, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, xerrors.NewWithError(xerrors.CodeInternalError, "战斗日志序列化失败", err)
	}
	return data, nil
}
