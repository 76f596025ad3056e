package response

import (
	"context"
	"net/http"

	"tsu-arena/internal/pkg/ctxkey"
	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/metrics"
	"tsu-arena/internal/pkg/trace"
	"tsu-arena/internal/pkg/xerrors"
)

// Writer 统一的响应输出
type Writer interface {
	WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error
	WriteError(ctx context.Context, w http.ResponseWriter, err error) error
	WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error
}

// ResponseHandler Writer 的默认实现：记录错误日志与错误指标，生产环境隐藏错误详情
type ResponseHandler struct {
	logger      log.Logger
	environment string
}

// NewResponseHandler 构造函数。
func NewResponseHandler(logger log.Logger, environment string) *ResponseHandler {
	if logger == nil {
		logger = log.GetLogger()
	}
	return &ResponseHandler{logger: logger, environment: environment}
}

// DefaultResponseHandler 使用全局 logger 的开发环境配置，测试与命令行工具使用
func DefaultResponseHandler() *ResponseHandler {
	return NewResponseHandler(log.GetLogger(), "development")
}

// WriteSuccess 输出 200 成功响应
func (h *ResponseHandler) WriteSuccess(ctx context.Context, w http.ResponseWriter, data any) error {
	resp := Success(&data)
	resp.TraceId = trace.GetTraceID(ctx)
	metrics.DefaultErrorMetrics.RecordHTTPResponse(http.StatusOK, ctxkey.GetString(ctx, ctxkey.HTTPMethod), "")
	return JSON(w, http.StatusOK, resp)
}

// WriteError 将错误转换为 AppError 后输出
func (h *ResponseHandler) WriteError(ctx context.Context, w http.ResponseWriter, err error) error {
	appErr := xerrors.Wrap(err, xerrors.CodeInternalError, "系统内部错误")
	if appErr == nil {
		appErr = xerrors.FromCode(xerrors.CodeInternalError)
	}
	status := xerrors.GetHTTPStatus(appErr.Code)

	log.LogAppError(ctx, h.logger, "request failed", appErr)
	metrics.DefaultErrorMetrics.RecordError(appErr, status, ctxkey.GetString(ctx, ctxkey.HTTPMethod), "")

	detail := ""
	if appErr.Err != nil && h.environment != "production" {
		detail = appErr.Err.Error()
	}
	resp := Error[EmptyData](appErr.Code.ToInt(), appErr.Message, detail)
	resp.TraceId = trace.GetTraceID(ctx)
	return JSON(w, status, resp)
}

// WriteJSON 直接输出 JSON，不做 ResponseResult 包装
func (h *ResponseHandler) WriteJSON(ctx context.Context, w http.ResponseWriter, data any, statusCode int) error {
	return writeJSON(w, statusCode, data)
}
