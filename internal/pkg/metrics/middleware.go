package metrics

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tsu-arena/internal/pkg/ctxkey"
)

// maxTrackedRoutes 路由标签上限，超过后归入 "other"
const maxTrackedRoutes = 200

// Middleware Echo 中间件：记录请求数、延迟和进行中请求数。
// 路由标签使用模板（c.Path()），健康检查与 /metrics 不计入。
func Middleware() echo.MiddlewareFunc {
	routes := newRouteLimiter(maxTrackedRoutes)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			// HTTP 方法写入 context，错误指标按方法分组
			ctx := ctxkey.WithValue(req.Context(), ctxkey.HTTPMethod, req.Method)
			c.SetRequest(req.WithContext(ctx))

			if IsHealthCheckEndpoint(req.URL.Path) {
				return next(c)
			}

			m := DefaultHTTPMetrics
			service := GetServiceName()
			m.IncInProgress(service)
			start := time.Now()

			err := next(c)
			if err != nil {
				// 交给 echo 的错误处理器写出响应，才能拿到真实状态码
				c.Error(err)
			}

			m.DecInProgress(service)
			route := routes.label(c.Path())
			m.RecordRequest(service, route, req.Method, c.Response().Status, time.Since(start))
			return nil
		}
	}
}

// Handler 返回 Prometheus metrics HTTP 处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

// EchoHandler Echo 框架的 Prometheus metrics 处理器。
// gatherer 为 nil 时使用默认注册表。
func EchoHandler(gatherer prometheus.Gatherer) echo.HandlerFunc {
	h := promhttp.Handler()
	if gatherer != nil {
		h = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response().Writer, c.Request())
		return nil
	}
}
