package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/qa"
	"github.com/janhq/qa-api/internal/infrastructure/metrics"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// AskHandler exposes the question answering endpoint.
type AskHandler struct {
	service  qa.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewAskHandler constructs the handler.
func NewAskHandler(service qa.Service, log zerolog.Logger) *AskHandler {
	return &AskHandler{
		service:  service,
		validate: requests.NewValidator(),
		log:      log.With().Str("handler", "ask").Logger(),
	}
}

// Ask handles POST /v1/ask
// @Summary Ask a question
// @Description Answers a question from the document collection and records it in history. Without conversationId a new conversation is started.
// @Tags Ask
// @Accept json
// @Produce json
// @Param request body requests.AskRequest true "Question"
// @Success 200 {object} responses.Envelope{response=responses.AskResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 404 {object} responses.Envelope "Unknown conversation"
// @Failure 422 {object} responses.Envelope "Missing question"
// @Failure 502 {object} responses.Envelope "Answer generation failed"
// @Failure 504 {object} responses.Envelope "Answer generation timed out"
// @Router /v1/ask [post]
func (h *AskHandler) Ask(c *gin.Context) {
	var req requests.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.RecordAsk("invalid")
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "5c8e0a37-2f6d-4b19-9c74-1a3e7d5b0f92")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		metrics.RecordAsk("invalid")
		if missing := requests.MissingFields(err); len(missing) > 0 {
			responses.HandleError(c, platformerrors.NewMissingFieldError(c.Request.Context(), platformerrors.LayerRoute, "", missing...), "invalid request")
			return
		}
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, err.Error(), "")
		return
	}

	// A zero id means no conversation.
	if req.ConversationID != nil && *req.ConversationID == 0 {
		req.ConversationID = nil
	}

	answer, err := h.service.Ask(c.Request.Context(), qa.Request{
		ConversationID: req.ConversationID,
		Question:       req.Question,
	})
	if err != nil {
		metrics.RecordAsk(askOutcome(err))
		responses.HandleError(c, err, "failed to answer question")
		return
	}

	metrics.RecordAsk("answered")
	responses.OK(c, responses.MapAnswer(answer))
}

func askOutcome(err error) string {
	switch {
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeUnprocessable),
		platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation):
		return "invalid"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeNotFound):
		return "not_found"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal):
		return "upstream_error"
	case platformerrors.IsErrorType(err, platformerrors.ErrorTypeTimeout):
		return "timeout"
	}
	return "error"
}
