package middleware

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/trace"
)

const redacted = "***REDACTED***"

// LoggingConfig 请求日志配置
type LoggingConfig struct {
	// SkipPaths 按前缀匹配，不记录日志
	SkipPaths []string
	// DetailedLog 额外记录 query、UA 与脱敏后的请求头
	DetailedLog bool
	// LogRequestBody 仅在 DetailedLog 开启时生效
	LogRequestBody bool
	// MaxBodySize 请求体最多记录的字节数
	MaxBodySize int64
	// SensitiveHeaders 大小写不敏感
	SensitiveHeaders []string
}

// DefaultLoggingConfig 默认配置。战斗日志可能很大，请求体只记开头 4KB。
func DefaultLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		SkipPaths:        []string{"/health", "/metrics", "/swagger", "/favicon.ico"},
		MaxBodySize:      4 * 1024,
		SensitiveHeaders: []string{"Authorization", "Cookie", "X-Battle-Token", "X-Api-Key"},
	}
}

// LoggingMiddlewareWithConfig 记录请求开始与结束，结束日志按状态码选择级别
func LoggingMiddlewareWithConfig(logger log.Logger, config *LoggingConfig) echo.MiddlewareFunc {
	if config == nil {
		config = DefaultLoggingConfig()
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if shouldSkip(req.URL.Path, config.SkipPaths) {
				return next(c)
			}

			start := time.Now()
			ctx := req.Context()
			common := []any{
				log.String("method", req.Method),
				log.String("path", req.URL.Path),
				log.String("trace_id", trace.GetTraceID(ctx)),
			}

			logger.InfoContext(ctx, "请求开始", append(common, requestFields(c, config)...)...)

			err := next(c)

			status := c.Response().Status
			fields := append(common,
				log.Int("status_code", status),
				log.Int64("duration_ms", time.Since(start).Milliseconds()),
				log.Int64("response_size", c.Response().Size),
			)
			fields = append(fields, battleFields(c)...)

			switch {
			case err != nil:
				logger.ErrorContext(ctx, "请求处理出错", append(fields, log.Any("error", err))...)
			case status >= 500:
				logger.ErrorContext(ctx, "请求完成（服务器错误）", fields...)
			case status >= 400:
				logger.WarnContext(ctx, "请求完成（客户端错误）", fields...)
			default:
				logger.InfoContext(ctx, "请求完成", fields...)
			}
			return err
		}
	}
}

func requestFields(c echo.Context, config *LoggingConfig) []any {
	req := c.Request()
	fields := []any{log.String("client_ip", c.RealIP())}
	if !config.DetailedLog {
		return fields
	}

	if req.URL.RawQuery != "" {
		fields = append(fields, log.String("query", req.URL.RawQuery))
	}
	fields = append(fields, log.String("user_agent", req.UserAgent()))
	if headers := sanitizeHeaders(req.Header, config.SensitiveHeaders); len(headers) > 0 {
		fields = append(fields, log.Any("headers", headers))
	}
	if config.LogRequestBody {
		if body := readAndRestoreBody(c, config.MaxBodySize); body != "" {
			fields = append(fields, log.String("request_body", body))
		}
	}
	return fields
}

// battleFields 路由参数中的会话与战斗 ID
func battleFields(c echo.Context) []any {
	var fields []any
	if id := c.Param("session_id"); id != "" {
		fields = append(fields, log.String("replay_session_id", id))
	}
	if id := c.Param("battle_id"); id != "" {
		fields = append(fields, log.String("battle_id", id))
	}
	return fields
}

func shouldSkip(path string, skipPaths []string) bool {
	for _, p := range skipPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// sanitizeHeaders 每个 header 只取第一个值，敏感 header 脱敏
func sanitizeHeaders(headers map[string][]string, sensitive []string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if len(v) == 0 {
			continue
		}
		out[k] = v[0]
		for _, s := range sensitive {
			if strings.EqualFold(k, s) {
				out[k] = redacted
				break
			}
		}
	}
	return out
}

// readAndRestoreBody 读取前 maxSize 字节用于日志，后续处理器仍能读到完整请求体
func readAndRestoreBody(c echo.Context, maxSize int64) string {
	req := c.Request()
	if req.Body == nil {
		return ""
	}

	head, err := io.ReadAll(io.LimitReader(req.Body, maxSize))
	if err != nil {
		return ""
	}
	req.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(head), req.Body), Closer: req.Body}

	if int64(len(head)) >= maxSize {
		return string(head) + "... (truncated)"
	}
	return string(head)
}

type readCloser struct {
	io.Reader
	io.Closer
}
