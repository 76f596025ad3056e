package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tsu-arena/internal/pkg/ctxkey"
	"tsu-arena/internal/pkg/xerrors"
)

func newJSONLogger(buf *bytes.Buffer) Logger {
	return NewLogger(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestContextHandlerInjectsIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	ctx := ctxkey.WithValue(context.Background(), ctxkey.TraceID, "trace-9")
	ctx = ctxkey.WithValue(ctx, ctxkey.ReplaySessionID, "session-1")
	logger.InfoContext(ctx, "hello")

	line := decodeLine(t, &buf)
	assert.Equal(t, "trace-9", line["trace_id"])
	assert.Equal(t, "session-1", line["replay_session_id"])
	_, hasBattle := line["battle_id"]
	assert.False(t, hasBattle)
}

func TestLogAppErrorUsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newJSONLogger(&buf)

	LogAppError(context.Background(), logger, "session missing", xerrors.NewReplaySessionNotFoundError("s-1"))
	line := decodeLine(t, &buf)
	assert.Equal(t, "WARN", line["level"])

	buf.Reset()
	LogAppError(context.Background(), logger, "db down", xerrors.NewDatabaseError("select", "battle_records", nil))
	line = decodeLine(t, &buf)
	assert.Equal(t, "ERROR", line["level"])
}

func TestLogReplayTransitionIsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	LogReplayTransition(context.Background(), logger, "s-1", "tick", "fighting", 1, 3)
	assert.Zero(t, buf.Len(), "info 级别下不应输出逐 tick 日志")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}
