package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/backoffice/pkg/context"
	"github.com/Ramsey-B/backoffice/pkg/metrics"
	"github.com/labstack/echo/v4"
)

// Logger writes one structured line per request and records the request metrics.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}
			elapsed := time.Since(start)

			route := c.Path()
			metrics.RecordHTTPRequest(req.Method, route, res.Status, elapsed)

			fields := context.LogFields(req.Context())
			fields["method"] = req.Method
			fields["uri"] = req.RequestURI
			fields["route"] = route
			fields["status"] = res.Status
			fields["remote_ip"] = c.RealIP()
			fields["user_agent"] = req.UserAgent()
			fields["response_time"] = elapsed
			fields["response_size"] = strconv.FormatInt(res.Size, 10)

			entry := logger.WithContext(req.Context()).WithFields(fields)
			if res.Status >= 500 {
				entry.Warn("Request")
			} else {
				entry.Info("Request")
			}

			return nil
		}
	}
}
