package config

import "time"

// ReplayConfig 回放服务运行配置，全部来自环境变量
type ReplayConfig struct {
	Environment string
	LogLevel    string
	HTTPPort    string

	DatabaseURL string

	RedisHost     string
	RedisPort     int
	RedisPassword string
	RedisDB       int

	NatsAddress string

	// 回调令牌为空时不校验 X-Battle-Token
	BattleResultToken string

	SessionTTL     time.Duration
	MaxSessions    int
	ReportCacheTTL time.Duration
	SweepSpec      string
}

// LoadReplayConfig 读取回放服务配置；configDatabaseURL 为配置文件中的数据库地址（可为空）
func LoadReplayConfig(configDatabaseURL string) ReplayConfig {
	return ReplayConfig{
		Environment: GetEnvOrDefault("ENVIRONMENT", "development"),
		LogLevel:    GetEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort:    GetEnvOrDefault("GAME_HTTP_PORT", "8072"),

		DatabaseURL: GetDatabaseURL("TSU_GAME_DATABASE_URL", configDatabaseURL),

		RedisHost:     GetEnvOrDefault("REDIS_HOST", "localhost"),
		RedisPort:     GetIntOrDefault("REDIS_PORT", 6379),
		RedisPassword: GetEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       GetIntOrDefault("REDIS_DB", 0),

		NatsAddress: GetEnvOrDefault("NATS_ADDRESS", "localhost:4222"),

		BattleResultToken: GetEnvOrDefault("BATTLE_RESULT_TOKEN", ""),

		SessionTTL:     GetDurationOrDefault("REPLAY_SESSION_TTL", 15*time.Minute),
		MaxSessions:    GetIntOrDefault("REPLAY_MAX_SESSIONS", 10000),
		ReportCacheTTL: GetDurationOrDefault("REPLAY_REPORT_CACHE_TTL", time.Hour),
		SweepSpec:      GetEnvOrDefault("REPLAY_SWEEP_SPEC", "0 */1 * * * *"),
	}
}

// LogFields 返回脱敏后的配置，用于启动日志
func (c ReplayConfig) LogFields() map[string]any {
	return SanitizeConfigForLog(map[string]any{
		"environment":         c.Environment,
		"http_port":           c.HTTPPort,
		"database_url":        c.DatabaseURL,
		"redis_host":          c.RedisHost,
		"redis_port":          c.RedisPort,
		"redis_password":      c.RedisPassword,
		"nats_address":        c.NatsAddress,
		"battle_result_token": c.BattleResultToken,
		"session_ttl":         c.SessionTTL.String(),
		"max_sessions":        c.MaxSessions,
		"report_cache_ttl":    c.ReportCacheTTL.String(),
		"sweep_spec":          c.SweepSpec,
	})
}
