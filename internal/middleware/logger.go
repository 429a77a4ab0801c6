package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// RequestLogger logs every served request with its outcome
func RequestLogger(logger *logrus.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err) // let error handler commit response so status is known
			}

			req := c.Request()
			entry := logger.WithFields(logrus.Fields{
				"method":   req.Method,
				"path":     c.Path(),
				"uri":      req.RequestURI,
				"status":   c.Response().Status,
				"latency":  time.Since(start).String(),
				"remoteIp": c.RealIP(),
			})

			switch {
			case err != nil:
				entry.WithError(err).Warn("request failed")
			default:
				entry.Info("request served")
			}
			return nil
		}
	}
}
