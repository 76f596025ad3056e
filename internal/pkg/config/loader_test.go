package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadReplayConfigDefaults(t *testing.T) {
	for _, key := range []string{"GAME_HTTP_PORT", "REPLAY_SESSION_TTL", "REPLAY_MAX_SESSIONS", "TSU_GAME_DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg := LoadReplayConfig("postgres://from-config")
	assert.Equal(t, "8072", cfg.HTTPPort)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 10000, cfg.MaxSessions)
	assert.Equal(t, "postgres://from-config", cfg.DatabaseURL)
}

func TestLoadReplayConfigFromEnv(t *testing.T) {
	t.Setenv("GAME_HTTP_PORT", "9000")
	t.Setenv("REPLAY_SESSION_TTL", "2m")
	t.Setenv("REPLAY_MAX_SESSIONS", "12")
	t.Setenv("TSU_GAME_DATABASE_URL", "postgres://from-env")

	cfg := LoadReplayConfig("postgres://from-config")
	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, 2*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.MaxSessions)
	assert.Equal(t, "postgres://from-env", cfg.DatabaseURL)
}

func TestInvalidNumbersFallBack(t *testing.T) {
	t.Setenv("REPLAY_MAX_SESSIONS", "many")
	t.Setenv("REPLAY_SESSION_TTL", "-5m")

	assert.Equal(t, 7, GetIntOrDefault("REPLAY_MAX_SESSIONS", 7))
	assert.Equal(t, time.Minute, GetDurationOrDefault("REPLAY_SESSION_TTL", time.Minute))
}

func TestLogFieldsRedactsSecrets(t *testing.T) {
	cfg := ReplayConfig{DatabaseURL: "postgres://u:p@h/db", RedisPassword: "pw", BattleResultToken: "tok", HTTPPort: "8072"}
	fields := cfg.LogFields()

	assert.Equal(t, "***REDACTED***", fields["database_url"])
	assert.Equal(t, "***REDACTED***", fields["redis_password"])
	assert.Equal(t, "***REDACTED***", fields["battle_result_token"])
	assert.Equal(t, "8072", fields["http_port"])
}
