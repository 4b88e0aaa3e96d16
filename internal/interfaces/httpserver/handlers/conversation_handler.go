package handlers

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// DeletedMessage confirms a conversation deletion.
const DeletedMessage = "Conversation deleted"

// ConversationHandler exposes HTTP entrypoints for conversations.
type ConversationHandler struct {
	service conversation.Service
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service conversation.Service, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// List handles GET /v1/conversations
// @Summary List conversations
// @Description Returns every conversation ordered by id
// @Tags Conversations
// @Produce json
// @Success 200 {object} responses.Envelope{response=[]responses.ConversationResponse}
// @Failure 404 {object} responses.Envelope "No conversations exist"
// @Failure 500 {object} responses.Envelope
// @Router /v1/conversations [get]
func (h *ConversationHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context())
	if err != nil {
		responses.HandleError(c, err, "failed to list conversations")
		return
	}
	responses.OK(c, responses.MapConversations(items))
}

// Create handles POST /v1/conversations
// @Summary Create a conversation
// @Description Creates a conversation. Without a title one is generated from the latest question.
// @Tags Conversations
// @Accept json
// @Produce json
// @Param request body requests.CreateConversationRequest false "Conversation title"
// @Success 200 {object} responses.Envelope{response=responses.ConversationCreatedResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 409 {object} responses.Envelope "Title already exists"
// @Failure 422 {object} responses.Envelope "Title required"
// @Failure 500 {object} responses.Envelope
// @Router /v1/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "3e6b1f42-8c0d-4a7e-b95f-2d1c7a4e9b06")
		return
	}

	conv, err := h.service.Create(c.Request.Context(), req.Title)
	if err != nil {
		responses.HandleError(c, err, "failed to create conversation")
		return
	}
	responses.OK(c, responses.ConversationCreatedResponse{ConversationID: conv.ID, Title: conv.Title})
}

// Update handles PUT /v1/conversations/:id
// @Summary Rename a conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Param id path int true "Conversation ID"
// @Param request body requests.UpdateConversationRequest true "New title"
// @Success 200 {object} responses.Envelope{response=responses.ConversationUpdatedResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 404 {object} responses.Envelope
// @Failure 409 {object} responses.Envelope "Title unchanged or taken"
// @Failure 422 {object} responses.Envelope "Blank title"
// @Failure 500 {object} responses.Envelope
// @Router /v1/conversations/{id} [put]
func (h *ConversationHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req requests.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid request body", "a0c47e15-6d2b-4f93-8e1a-5b7d0c3f6e28")
		return
	}

	conv, err := h.service.Rename(c.Request.Context(), id, req.Title)
	if err != nil {
		responses.HandleError(c, err, "failed to update conversation")
		return
	}
	responses.OK(c, responses.ConversationUpdatedResponse{ConversationID: conv.ID})
}

// Delete handles DELETE /v1/conversations/:id
// @Summary Delete a conversation
// @Description Deletes the conversation and its whole history
// @Tags Conversations
// @Produce json
// @Param id path int true "Conversation ID"
// @Success 200 {object} responses.Envelope{response=responses.MessageResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 404 {object} responses.Envelope
// @Failure 500 {object} responses.Envelope
// @Router /v1/conversations/{id} [delete]
func (h *ConversationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		responses.HandleError(c, err, "failed to delete conversation")
		return
	}
	responses.OK(c, responses.MessageResponse{Message: DeletedMessage})
}

func parseID(c *gin.Context, param string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid "+param, "7d2f9a61-0b4e-4c38-a1d5-9e6c3b8f2a47")
		return 0, false
	}
	return id, true
}
