package requests

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateConversationRequest creates a conversation; a blank title is generated.
type CreateConversationRequest struct {
	Title string `json:"title" example:"Trip planning"`
}

// UpdateConversationRequest renames a conversation.
type UpdateConversationRequest struct {
	Title string `json:"title" example:"Trip planning"`
}

// AskRequest submits a question, optionally continuing a conversation.
type AskRequest struct {
	ConversationID *uint64 `json:"conversationId,omitempty" example:"1"`
	Question       string  `json:"question" validate:"required" example:"What is the maximum page size?"`
}

// HistoryQuery selects one page of a conversation's history.
type HistoryQuery struct {
	ConversationID *uint64 `form:"conversationId" validate:"required"`
	Limit          *int    `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset         int     `form:"offset" validate:"min=0"`
}

// BookmarkedQuery selects one page of bookmarked history.
type BookmarkedQuery struct {
	Limit  *int `form:"limit" validate:"omitempty,min=1,max=100"`
	Offset int  `form:"offset" validate:"min=0"`
}

// BookmarkQuery sets the bookmark explicitly; absent value toggles.
type BookmarkQuery struct {
	Value *bool `form:"value"`
}

// NewValidator returns a validator reporting fields by their json or form name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.Split(field.Tag.Get(tag), ",")[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return field.Name
	})
	return v
}

// MissingFields extracts the names of fields that failed a required rule.
// It returns nil when err carries any other kind of violation.
func MissingFields(err error) []string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}
	missing := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		if fieldErr.Tag() != "required" {
			return nil
		}
		missing = append(missing, fieldErr.Field())
	}
	return missing
}
