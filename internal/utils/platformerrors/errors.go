package platformerrors

import (
	"context"
	"errors"
	"maps"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// PlatformError is the error value passed between layers. UUID is a stable
// code for the failure site when the caller supplies one.
type PlatformError struct {
	UUID      string
	Type      ErrorType
	Message   string
	Err       error
	Fields    map[string]any
	RequestID string
	Layer     Layer
	Timestamp time.Time
}

func (e *PlatformError) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Layer))
	b.WriteString(": ")
	b.WriteString(e.Message)
	b.WriteString(" (")
	b.WriteString(string(e.Type))
	b.WriteString(" ")
	b.WriteString(e.UUID)
	b.WriteString(")")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// NewError builds a PlatformError. An empty customUUID gets a random one.
func NewError(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string) *PlatformError {
	return NewErrorWithContext(ctx, layer, errorType, message, err, customUUID, nil)
}

// NewErrorWithContext is NewError plus structured fields that LogError
// attaches to the log line.
func NewErrorWithContext(ctx context.Context, layer Layer, errorType ErrorType, message string, err error, customUUID string, fields map[string]any) *PlatformError {
	if customUUID == "" {
		customUUID = uuid.NewString()
	}
	return &PlatformError{
		UUID:      customUUID,
		Type:      errorType,
		Message:   message,
		Err:       err,
		Fields:    maps.Clone(fields),
		RequestID: RequestIDFromContext(ctx),
		Layer:     layer,
		Timestamp: time.Now().UTC(),
	}
}

// AsError re-raises err at layer. A PlatformError anywhere in the chain keeps
// its type and code and has message prefixed; any other error becomes
// ErrorTypeInternal.
func AsError(ctx context.Context, layer Layer, err error, message string) *PlatformError {
	if err == nil {
		return nil
	}
	var inner *PlatformError
	if !errors.As(err, &inner) {
		return NewError(ctx, layer, ErrorTypeInternal, message, err, "")
	}
	wrapped := NewErrorWithContext(ctx, layer, inner.Type, message+": "+inner.Message, inner, inner.UUID, inner.Fields)
	if wrapped.RequestID == "" {
		wrapped.RequestID = inner.RequestID
	}
	return wrapped
}

// IsErrorType reports whether err wraps a PlatformError of errorType.
func IsErrorType(err error, errorType ErrorType) bool {
	var platformErr *PlatformError
	return errors.As(err, &platformErr) && platformErr.Type == errorType
}

// LogError writes err once. Client errors log at warn level.
func LogError(logger zerolog.Logger, err *PlatformError) {
	if err == nil {
		return
	}
	status := err.Type.Status()
	level := zerolog.ErrorLevel
	if status < http.StatusInternalServerError {
		level = zerolog.WarnLevel
	}

	event := logger.WithLevel(level).
		Str("error_code", err.UUID).
		Str("error_type", string(err.Type)).
		Str("layer", string(err.Layer)).
		Int("status", status).
		Time("raised_at", err.Timestamp)
	if err.RequestID != "" {
		event = event.Str("request_id", err.RequestID)
	}
	if len(err.Fields) > 0 {
		event = event.Fields(err.Fields)
	}
	event.Err(err.Err).Msg(err.Message)
}
