// File: internal/pkg/xerrors/codes.go
package xerrors

import "fmt"

// ErrorCode 错误码类型（类型安全）
type ErrorCode int

// IsValid 检查错误码是否在预定义列表中
func (c ErrorCode) IsValid() bool {
	_, exists := codeMessages[c]
	return exists
}

// String 返回错误码的字符串表示
func (c ErrorCode) String() string {
	if msg, ok := codeMessages[c]; ok {
		return fmt.Sprintf("%d (%s)", c, msg)
	}
	return fmt.Sprintf("%d (未定义的错误码)", c)
}

// Message 返回错误码对应的消息
func (c ErrorCode) Message() string {
	if msg, ok := codeMessages[c]; ok {
		return msg
	}
	return "未知错误"
}

// ToInt 转换为 int（用于 JSON 序列化等场景）
func (c ErrorCode) ToInt() int {
	return int(c)
}

// -----------------------------------------------------------------------------
// 业务错误码统一定义
// 按模块或领域对错误码进行分段，便于管理。
// -----------------------------------------------------------------------------
const (
	// 1xxxxx: 通用错误码
	CodeSuccess           ErrorCode = 100000 // 操作成功
	CodeInternalError     ErrorCode = 100001 // 内部服务错误
	CodeInvalidParams     ErrorCode = 100002 // 参数错误
	CodeInvalidRequest    ErrorCode = 100003 // 请求格式错误
	CodeResourceNotFound  ErrorCode = 100404 // 资源不存在
	CodeDuplicateResource ErrorCode = 100409 // 资源已存在
	CodeRateLimitExceeded ErrorCode = 100429 // 请求频率限制

	// 2xxxxx: 认证相关错误码（仅保留回调令牌校验）
	CodeAuthenticationFailed ErrorCode = 200001 // 认证失败

	// 6xxxxx: 业务逻辑错误码
	CodeDataIntegrityError ErrorCode = 600002 // 数据完整性错误

	// 7xxxxx: 外部服务错误码
	CodeDatabaseError     ErrorCode = 700003 // 数据库错误
	CodeCacheError        ErrorCode = 700004 // 缓存服务错误
	CodeMessageQueueError ErrorCode = 700005 // 消息队列错误

	// 8xxxxx: 游戏业务错误码
	// 战斗相关 (83xxxx)
	CodeBattleLogInvalid      ErrorCode = 830001 // 战斗日志不合法
	CodeBattleNotFound        ErrorCode = 830002 // 战斗记录不存在
	CodeReplaySessionNotFound ErrorCode = 830003 // 回放会话不存在
	CodeReplaySessionLimit    ErrorCode = 830004 // 回放会话数量已达上限
	CodeReplayReportNotReady  ErrorCode = 830005 // 回放尚未结束
)

// -----------------------------------------------------------------------------
// HTTP 状态码常量定义
// -----------------------------------------------------------------------------
const (
	HTTPStatusOK = 200 // 请求成功

	HTTPStatusBadRequest          = 400 // 错误请求
	HTTPStatusUnauthorized        = 401 // 未经授权
	HTTPStatusNotFound            = 404 // 资源未找到
	HTTPStatusConflict            = 409 // 资源冲突
	HTTPStatusUnprocessableEntity = 422 // 无法处理的实体
	HTTPStatusTooManyRequests     = 429 // 请求过多

	HTTPStatusInternalServerError = 500 // 内部服务器错误
	HTTPStatusServiceUnavailable  = 503 // 服务不可用
)

// -----------------------------------------------------------------------------
// 错误消息映射
// -----------------------------------------------------------------------------
var codeMessages = map[ErrorCode]string{
	CodeSuccess:           "操作成功",
	CodeInternalError:     "内部服务错误",
	CodeInvalidParams:     "参数错误",
	CodeInvalidRequest:    "请求格式错误",
	CodeResourceNotFound:  "资源不存在",
	CodeDuplicateResource: "资源已存在",
	CodeRateLimitExceeded: "请求频率限制",

	CodeAuthenticationFailed: "认证失败",

	CodeDataIntegrityError: "数据完整性错误",

	CodeDatabaseError:     "数据库错误",
	CodeCacheError:        "缓存服务错误",
	CodeMessageQueueError: "消息队列错误",

	// 战斗业务错误消息
	CodeBattleLogInvalid:      "战斗日志不合法",
	CodeBattleNotFound:        "战斗记录不存在",
	CodeReplaySessionNotFound: "回放会话不存在",
	CodeReplaySessionLimit:    "回放会话数量已达上限",
	CodeReplayReportNotReady:  "回放尚未结束",
}

// GetHTTPStatus 根据业务错误码获取HTTP状态码
func GetHTTPStatus(code ErrorCode) int {
	switch {
	case code == CodeSuccess:
		return HTTPStatusOK
	case code >= 200000 && code < 300000:
		return HTTPStatusUnauthorized
	case code == CodeResourceNotFound, code == CodeBattleNotFound, code == CodeReplaySessionNotFound:
		return HTTPStatusNotFound
	case code == CodeDuplicateResource, code == CodeReplayReportNotReady:
		return HTTPStatusConflict
	case code == CodeInvalidParams || code == CodeInvalidRequest:
		return HTTPStatusBadRequest
	case code == CodeBattleLogInvalid:
		return HTTPStatusUnprocessableEntity
	case code == CodeRateLimitExceeded, code == CodeReplaySessionLimit:
		return HTTPStatusTooManyRequests
	case code >= 600000 && code < 700000:
		return HTTPStatusBadRequest
	case code >= 700000 && code < 800000:
		return HTTPStatusServiceUnavailable
	default:
		return HTTPStatusInternalServerError
	}
}

// 辅助函数
// getCategoryByCode 根据错误码获取分类
func getCategoryByCode(code ErrorCode) string {
	switch {
	case code >= 100000 && code < 200000:
		return "system"
	case code >= 200000 && code < 300000:
		return "authentication"
	case code >= 600000 && code < 700000:
		return "business"
	case code >= 700000 && code < 800000:
		return "external"
	case code >= 800000 && code < 900000:
		return "game"
	default:
		return "unknown"
	}
}

// getLevelByCode 根据错误码获取级别
func getLevelByCode(code ErrorCode) ErrorLevel {
	switch {
	case code == CodeSuccess:
		return LevelInfo
	case code >= 100001 && code <= 100003: // 参数错误等
		return LevelWarn
	case code >= 830002 && code <= 830005: // 会话/记录查询类错误
		return LevelWarn
	case code >= 700001 && code < 800000: // 外部服务错误
		return LevelCritical
	default:
		return LevelError
	}
}

// isRetryableByCode 根据错误码判断是否可重试
func isRetryableByCode(code ErrorCode) bool {
	retryableCodes := map[ErrorCode]bool{
		CodeInternalError:      true,
		CodeDatabaseError:      true,
		CodeCacheError:         true,
		CodeMessageQueueError:  true,
		CodeRateLimitExceeded:  true,
		CodeReplaySessionLimit: true,
	}
	return retryableCodes[code]
}
