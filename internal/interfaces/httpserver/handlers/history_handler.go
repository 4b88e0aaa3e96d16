package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/qa-api/internal/utils/platformerrors"
)

// HistoryHandler exposes history listing and bookmarks.
type HistoryHandler struct {
	service  history.Service
	validate *validator.Validate
	log      zerolog.Logger
}

// NewHistoryHandler constructs the handler.
func NewHistoryHandler(service history.Service, log zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		service:  service,
		validate: requests.NewValidator(),
		log:      log.With().Str("handler", "history").Logger(),
	}
}

// List handles GET /v1/history
// @Summary List a conversation's history
// @Description Returns question/answer pairs of one conversation, oldest first
// @Tags Chat History
// @Produce json
// @Param conversationId query int true "Conversation ID"
// @Param limit query int false "Page size (1-100)" default(20)
// @Param offset query int false "Records to skip" default(0)
// @Success 200 {object} responses.Envelope{response=[]responses.HistoryResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 404 {object} responses.Envelope
// @Failure 422 {object} responses.Envelope "Missing conversationId"
// @Failure 500 {object} responses.Envelope
// @Router /v1/history [get]
func (h *HistoryHandler) List(c *gin.Context) {
	var query requests.HistoryQuery
	if !h.bindQuery(c, &query) {
		return
	}

	records, err := h.service.ListByConversation(c.Request.Context(), *query.ConversationID, page(query.Limit, query.Offset))
	if err != nil {
		responses.HandleError(c, err, "failed to list history")
		return
	}
	responses.OK(c, responses.MapHistory(records))
}

// ListBookmarked handles GET /v1/history/bookmarked
// @Summary List bookmarked history
// @Description Returns bookmarked records across all conversations, newest first
// @Tags Chat History
// @Produce json
// @Param limit query int false "Page size (1-100)" default(50)
// @Param offset query int false "Records to skip" default(0)
// @Success 200 {object} responses.Envelope{response=[]responses.HistoryResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 500 {object} responses.Envelope
// @Router /v1/history/bookmarked [get]
func (h *HistoryHandler) ListBookmarked(c *gin.Context) {
	var query requests.BookmarkedQuery
	if !h.bindQuery(c, &query) {
		return
	}

	records, err := h.service.ListBookmarked(c.Request.Context(), page(query.Limit, query.Offset))
	if err != nil {
		responses.HandleError(c, err, "failed to list bookmarked history")
		return
	}
	responses.OK(c, responses.MapHistory(records))
}

// Bookmark handles PUT /v1/history/:id/bookmark
// @Summary Toggle or set a bookmark
// @Description Flips the bookmark flag, or sets it when value is given
// @Tags Chat History
// @Produce json
// @Param id path int true "History ID"
// @Param value query bool false "Explicit bookmark state"
// @Success 200 {object} responses.Envelope{response=responses.BookmarkResponse}
// @Failure 400 {object} responses.Envelope
// @Failure 404 {object} responses.Envelope
// @Failure 500 {object} responses.Envelope
// @Router /v1/history/{id}/bookmark [put]
func (h *HistoryHandler) Bookmark(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var query requests.BookmarkQuery
	if !h.bindQuery(c, &query) {
		return
	}

	var (
		record *history.Record
		err    error
	)
	if query.Value != nil {
		record, err = h.service.SetBookmark(c.Request.Context(), id, *query.Value)
	} else {
		record, err = h.service.ToggleBookmark(c.Request.Context(), id)
	}
	if err != nil {
		responses.HandleError(c, err, "failed to update bookmark")
		return
	}
	responses.OK(c, responses.BookmarkResponse{HistoryID: record.ID, IsBookmarked: record.Bookmarked})
}

func (h *HistoryHandler) bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid query parameters", "b7e1c924-5a3f-4d60-8f2b-6c0d9e4a1f35")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		if missing := requests.MissingFields(err); len(missing) > 0 {
			responses.HandleError(c, platformerrors.NewMissingFieldError(c.Request.Context(), platformerrors.LayerRoute, "", missing...), "invalid request")
			return false
		}
		responses.HandleNewError(c, platformerrors.ErrorTypeValidation, "invalid query parameters", "b7e1c924-5a3f-4d60-8f2b-6c0d9e4a1f35")
		return false
	}
	return true
}

func page(limit *int, offset int) history.Page {
	p := history.Page{Offset: offset}
	if limit != nil {
		p.Limit = *limit
	}
	return p
}
