package xerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBattleLogErrorCarriesTurn(t *testing.T) {
	err := NewBattleLogError(3, "opponent_health", "超出上限")

	require.Equal(t, CodeBattleLogInvalid, err.Code)
	assert.Contains(t, err.Message, "第 3 回合")
	require.NotNil(t, err.Context)
	assert.Equal(t, 3, err.Context.Metadata["turn"])
	assert.Equal(t, "opponent_health", err.Context.Metadata["field"])
	assert.Equal(t, HTTPStatusUnprocessableEntity, GetHTTPStatus(err.Code))
}

func TestNewBattleLogErrorWithoutTurn(t *testing.T) {
	err := NewBattleLogError(-1, "challenger", "缺少快照")

	_, hasTurn := err.Context.Metadata["turn"]
	assert.False(t, hasTurn)
	assert.NotContains(t, err.Message, "回合")
}

func TestWrapKeepsExistingAppError(t *testing.T) {
	original := NewBattleNotFoundError("battle-1")
	wrapped := fmt.Errorf("load: %w", original)

	got := Wrap(wrapped, CodeInternalError, "ignored")
	assert.Same(t, original, got)
	assert.Nil(t, Wrap(nil, CodeInternalError, "nil"))
}

func TestWrapPlainError(t *testing.T) {
	base := errors.New("connection refused")
	got := Wrap(base, CodeCacheError, "读取缓存失败")

	require.NotNil(t, got)
	assert.Equal(t, CodeCacheError, got.Code)
	assert.ErrorIs(t, got, base)
	assert.True(t, got.IsRetryable())
	assert.True(t, got.IsCritical())
}

func TestIsCodeAndCodeOf(t *testing.T) {
	err := fmt.Errorf("ctx: %w", NewReplaySessionNotFoundError("s-1"))

	assert.True(t, IsCode(err, CodeReplaySessionNotFound))
	assert.False(t, IsCode(err, CodeBattleNotFound))
	assert.False(t, IsCode(errors.New("plain"), CodeBattleNotFound))

	assert.Equal(t, CodeReplaySessionNotFound, CodeOf(err))
	assert.Equal(t, CodeInternalError, CodeOf(errors.New("plain")))
	assert.Equal(t, CodeSuccess, CodeOf(nil))
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		code ErrorCode
		want int
	}{
		{"成功", CodeSuccess, HTTPStatusOK},
		{"参数错误", CodeInvalidParams, HTTPStatusBadRequest},
		{"回调令牌无效", CodeAuthenticationFailed, HTTPStatusUnauthorized},
		{"战斗不存在", CodeBattleNotFound, HTTPStatusNotFound},
		{"会话不存在", CodeReplaySessionNotFound, HTTPStatusNotFound},
		{"回放未结束", CodeReplayReportNotReady, HTTPStatusConflict},
		{"会话上限", CodeReplaySessionLimit, HTTPStatusTooManyRequests},
		{"数据库错误", CodeDatabaseError, HTTPStatusServiceUnavailable},
		{"内部错误", CodeInternalError, HTTPStatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}
