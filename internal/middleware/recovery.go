// Package middleware 游戏服 HTTP 中间件：panic 恢复、统一错误输出与请求日志。
package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"tsu-arena/internal/pkg/log"
	"tsu-arena/internal/pkg/response"
	"tsu-arena/internal/pkg/xerrors"
)

// RecoveryMiddleware 恢复中间件
func RecoveryMiddleware(respWriter response.Writer, logger log.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				ctx := c.Request().Context()

				logger.ErrorContext(ctx, "应用程序 panic",
					log.Any("panic_value", r),
					log.String("path", c.Request().URL.Path),
					log.String("method", c.Request().Method),
				)

				appErr := xerrors.FromCode(xerrors.CodeInternalError).
					WithService("echo-middleware", "recovery").
					WithMetadata("panic_value", fmt.Sprintf("%v", r))

				// 已经开始写响应时不再覆盖
				if c.Response().Committed {
					err = appErr
					return
				}
				err = respWriter.WriteError(ctx, c.Response(), appErr)
			}()

			return next(c)
		}
	}
}
