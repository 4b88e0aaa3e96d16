package platformerrors

import "net/http"

// ErrorType classifies a failure; the HTTP layer derives the status code
// and message visibility from it.
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "NOT_FOUND"
	ErrorTypeValidation    ErrorType = "VALIDATION"
	ErrorTypeUnprocessable ErrorType = "UNPROCESSABLE"
	ErrorTypeConflict      ErrorType = "CONFLICT"
	ErrorTypeInternal      ErrorType = "INTERNAL"
	ErrorTypeExternal      ErrorType = "EXTERNAL"
	ErrorTypeTimeout       ErrorType = "TIMEOUT"
	ErrorTypeDatabaseError ErrorType = "DATABASE_ERROR"
)

var statusByType = map[ErrorType]int{
	ErrorTypeNotFound:      http.StatusNotFound,
	ErrorTypeValidation:    http.StatusBadRequest,
	ErrorTypeUnprocessable: http.StatusUnprocessableEntity,
	ErrorTypeConflict:      http.StatusConflict,
	ErrorTypeExternal:      http.StatusBadGateway,
	ErrorTypeTimeout:       http.StatusGatewayTimeout,
}

// Status is the HTTP status for the type. Unknown types map to 500.
func (t ErrorType) Status() int {
	if status, ok := statusByType[t]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Public reports whether the error message may be shown to API clients.
// Internal and database failures only ever surface a generic message.
func (t ErrorType) Public() bool {
	return t.Status() != http.StatusInternalServerError
}

// ErrorTypeToHTTPStatus maps error types to HTTP status codes.
func ErrorTypeToHTTPStatus(errorType ErrorType) int {
	return errorType.Status()
}

// Layer names where in the stack an error was raised.
type Layer string

const (
	LayerRepository Layer = "repository"
	LayerDomain     Layer = "domain"
	LayerRoute      Layer = "route"
)
