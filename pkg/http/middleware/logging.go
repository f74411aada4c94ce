package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging writes one access-log line per request. Fit requests can
// run for seconds, so the latency field matters more here than usual.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			req := c.Request()
			log.Printf("[%s] %s %s - %d (%s)",
				req.Method, req.RequestURI, req.RemoteAddr,
				c.Response().Status, time.Since(start))
			return err
		}
	}
}
