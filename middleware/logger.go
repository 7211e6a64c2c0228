package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogger logs one line per request through the standard logger, so
// request logs interleave with the service logs in a single stream.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			path := req.URL.Path
			if q := req.URL.RawQuery; q != "" {
				path += "?" + q
			}

			log.Printf("http %s %s status=%d dur=%s ip=%s",
				req.Method, path, c.Response().Status,
				time.Since(start).Round(time.Millisecond), c.RealIP())

			return nil
		}
	}
}
