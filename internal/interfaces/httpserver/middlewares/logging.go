package middlewares

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// LoggingMiddleware writes one access line per request and logs each error
// the handlers attached with c.Error.
func LoggingMiddleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		reqLogger := traceLogger(c, logger)
		for _, ginErr := range c.Errors {
			var platformErr *platformerrors.PlatformError
			if errors.As(ginErr.Err, &platformErr) {
				platformerrors.LogError(reqLogger, platformErr)
				continue
			}
			reqLogger.Error().Err(ginErr.Err).Str("request_id", RequestIDFromContext(c)).Msg("unhandled request error")
		}

		status := c.Writer.Status()
		reqLogger.WithLevel(accessLevel(status)).
			Str("request_id", RequestIDFromContext(c)).
			Str("method", c.Request.Method).
			Str("route", routeOf(c)).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(started)).
			Str("client_ip", c.ClientIP()).
			Msg("request completed")
	}
}

// traceLogger adds the active span's ids to logger. PlatformErrors carry
// their own request id, so it is added per line instead.
func traceLogger(c *gin.Context, logger zerolog.Logger) zerolog.Logger {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.IsValid() {
		return logger
	}
	return logger.With().Str("trace_id", sc.TraceID().String()).Str("span_id", sc.SpanID().String()).Logger()
}

func accessLevel(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
