package platformerrors

import (
	"context"
	"errors"
	"strings"
)

// ErrMissingField marks requests that omitted a required field.
var ErrMissingField = errors.New("missing required field")

// NewMissingFieldError reports the named fields as missing.
func NewMissingFieldError(ctx context.Context, layer Layer, customUUID string, fields ...string) *PlatformError {
	return NewErrorWithContext(
		ctx,
		layer,
		ErrorTypeUnprocessable,
		"Missing required fields: "+strings.Join(fields, ", "),
		ErrMissingField,
		customUUID,
		map[string]any{"fields": fields},
	)
}
