package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// Envelope wraps every API response.
type Envelope struct {
	Success   bool    `json:"success"`
	Response  any     `json:"response"`
	Error     *string `json:"error"`
	Code      string  `json:"code,omitempty"` // UUID from PlatformError
	RequestID string  `json:"request_id,omitempty"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// OK writes payload in a successful envelope.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Response: payload})
}

// HandleError writes err in a failed envelope with the status mapped from
// its PlatformError type. Client-facing errors (4xx, upstream failures and
// timeouts) expose the domain message; other server errors expose message.
func HandleError(reqCtx *gin.Context, err error, message string) {
	_ = reqCtx.Error(err)

	var platformErr *platformerrors.PlatformError
	if !errors.As(err, &platformErr) {
		abort(reqCtx, http.StatusInternalServerError, Envelope{Error: &message})
		return
	}

	text := message
	if platformErr.Type.Public() {
		text = publicMessage(err, message)
	}
	abort(reqCtx, platformErr.Type.Status(), Envelope{
		Error:     &text,
		Code:      platformErr.UUID,
		RequestID: platformErr.RequestID,
	})
}

// HandleNewError creates a new typed error at the route layer and handles it
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string, uuid string) {
	err := platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, errorType, message, nil, uuid)
	HandleError(reqCtx, err, message)
}

func abort(reqCtx *gin.Context, statusCode int, body Envelope) {
	body.Success = false
	reqCtx.AbortWithStatusJSON(statusCode, body)
}

// publicMessage returns the message of the innermost domain or route layer
// PlatformError in the chain. Wrappers added by AsError only prefix context
// that is meant for logs.
func publicMessage(err error, fallback string) string {
	text := ""
	for current := err; current != nil; current = errors.Unwrap(current) {
		platformErr, ok := current.(*platformerrors.PlatformError)
		if !ok {
			continue
		}
		if platformErr.Layer == platformerrors.LayerDomain || platformErr.Layer == platformerrors.LayerRoute {
			text = platformErr.Message
		}
	}
	if text == "" {
		return fallback
	}
	return text
}
