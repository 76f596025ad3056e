package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/response"
	"tsu-arena/internal/pkg/xerrors"
)

// ErrorMiddleware 统一错误处理中间件，把 handler 返回的错误写成统一响应
func ErrorMiddleware(respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil || c.Response().Committed {
				return err
			}

			ctx := c.Request().Context()

			switch e := err.(type) {
			case *xerrors.AppError:
				return respWriter.WriteError(ctx, c.Response(), e)

			case *echo.HTTPError:
				return respWriter.WriteError(ctx, c.Response(), convertEchoError(e))

			default:
				appErr := xerrors.NewWithError(
					xerrors.CodeInternalError,
					"系统内部错误",
					err,
				).WithService("echo-middleware", "error_handler")

				logger.ErrorContext(ctx, "未处理的错误",
					log.Any("original_error", err),
					log.String("error_type", fmt.Sprintf("%T", err)),
				)

				return respWriter.WriteError(ctx, c.Response(), appErr)
			}
		}
	}
}

// convertEchoError 将 Echo 错误转换为业务错误
func convertEchoError(echoErr *echo.HTTPError) *xerrors.AppError {
	message := fmt.Sprintf("%v", echoErr.Message)

	var appErr *xerrors.AppError
	switch echoErr.Code {
	case 400:
		appErr = xerrors.FromCode(xerrors.CodeInvalidParams)
	case 401:
		appErr = xerrors.FromCode(xerrors.CodeAuthenticationFailed)
	case 404:
		appErr = xerrors.FromCode(xerrors.CodeResourceNotFound)
	case 405:
		appErr = xerrors.FromCode(xerrors.CodeInvalidRequest)
	case 409:
		appErr = xerrors.FromCode(xerrors.CodeDuplicateResource)
	case 413:
		appErr = xerrors.FromCode(xerrors.CodeInvalidRequest)
	case 429:
		appErr = xerrors.FromCode(xerrors.CodeRateLimitExceeded)
	default:
		appErr = xerrors.FromCode(xerrors.CodeInternalError).
			WithMetadata("echo_code", fmt.Sprintf("%d", echoErr.Code))
	}
	return appErr.WithMetadata("echo_message", message)
}
