package middlewares

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// TracingMiddleware opens a server span per request, continuing any trace
// propagated by the caller.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	tracer := otel.Tracer(serviceName)

	return func(c *gin.Context) {
		parent := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		route := routeOf(c)

		ctx, span := tracer.Start(parent, spanName(c, route),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				semconv.HTTPRoute(route),
				attribute.String("url.path", c.Request.URL.Path),
				attribute.String("user_agent.original", c.Request.UserAgent()),
				attribute.String("client.address", c.ClientIP()),
			),
		)
		defer span.End()
		if requestID := RequestIDFromContext(c); requestID != "" {
			span.SetAttributes(attribute.String("request.id", requestID))
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		annotateErrors(span, c.Errors)
		if status >= 500 {
			span.SetStatus(codes.Error, c.Errors.String())
		}
	}
}

func spanName(c *gin.Context, route string) string {
	if route == unmatchedRoute {
		return c.Request.Method + " " + c.Request.URL.Path
	}
	return c.Request.Method + " " + route
}

// annotateErrors records handler errors and tags the span with the error
// type and code of the last PlatformError, if any.
func annotateErrors(span trace.Span, errs []*gin.Error) {
	for _, ginErr := range errs {
		span.RecordError(ginErr.Err)
		var platformErr *platformerrors.PlatformError
		if errors.As(ginErr.Err, &platformErr) {
			span.SetAttributes(
				attribute.String("error.type", string(platformErr.Type)),
				attribute.String("error.code", platformErr.UUID),
			)
		}
	}
}
