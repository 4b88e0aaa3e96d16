package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/qa-api/internal/config"
	"github.com/janhq/qa-api/internal/domain/conversation"
	"github.com/janhq/qa-api/internal/domain/history"
	"github.com/janhq/qa-api/internal/domain/policy"
	"github.com/janhq/qa-api/internal/domain/qa"
	"github.com/janhq/qa-api/internal/domain/rag"
	"github.com/janhq/qa-api/internal/domain/title"
	"github.com/janhq/qa-api/internal/infrastructure/database/dbtest"
	"github.com/janhq/qa-api/internal/infrastructure/repository/conversationrepo"
	"github.com/janhq/qa-api/internal/infrastructure/repository/historyrepo"
	"github.com/janhq/qa-api/internal/interfaces/httpserver"
	"github.com/janhq/qa-api/internal/interfaces/httpserver/handlers"
)

type stubRetriever struct{}

func (stubRetriever) Retrieve(context.Context, string) ([]rag.Document, error) {
	return []rag.Document{
		{Text: "Trips leave from gate 4.", Metadata: map[string]any{"section_code": "2.3"}},
		{Text: "No section here."},
	}, nil
}

type stubLLM struct{}

func (stubLLM) Generate(context.Context, string) (string, error) {
	return "From gate 4.", nil
}

type response struct {
	Success  bool            `json:"success"`
	Response json.RawMessage `json:"response"`
	Error    *string         `json:"error"`
}

func newServer(t *testing.T) http.Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.New(t)
	log := zerolog.Nop()
	pol := policy.Compatible()

	convRepo := conversationrepo.NewConversationGormRepository(db)
	histRepo := historyrepo.NewHistoryGormRepository(db)
	histories := history.NewService(histRepo, convRepo, pol, log)
	conversations := conversation.NewService(convRepo, histRepo, title.NewGenerator(histories, nil, log), db, pol, log)
	answers := qa.NewService(conversations, histories, rag.BuildAnswerChain(stubLLM{}, stubRetriever{}), db, qa.Config{}, log)

	cfg := &config.Config{ServiceName: "qa-api", CORSOrigins: []string{"*"}}
	server := httpserver.New(cfg, log, db.DB(), handlers.NewProvider(conversations, histories, answers, log))
	return server.Handler()
}

func call(t *testing.T, h http.Handler, method, path, body string) (int, response) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var out response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func TestPublicRoutes(t *testing.T) {
	h := newServer(t)

	for path, want := range map[string]string{
		"/":        `{"Hello":"World"}`,
		"/healthz": `{"status":"healthy"}`,
		"/readyz":  `{"status":"ready"}`,
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, want, w.Body.String(), path)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "jan_qa_api_requests_total")
}

func TestConversationAskHistoryScenario(t *testing.T) {
	h := newServer(t)

	status, out := call(t, h, http.MethodPost, "/v1/conversations", `{"title":"Trip"}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"conversationId":1,"title":"Trip"}`, string(out.Response))

	status, out = call(t, h, http.MethodPost, "/v1/conversations", `{"title":"Trip"}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, out.Success)

	status, out = call(t, h, http.MethodPost, "/v1/ask", `{"conversationId":1,"question":"Where?"}`)
	require.Equal(t, http.StatusOK, status)
	var answer struct {
		Answer         string   `json:"answer"`
		Sources        []string `json:"sources"`
		ConversationID uint64   `json:"conversationId"`
	}
	require.NoError(t, json.Unmarshal(out.Response, &answer))
	assert.Equal(t, "From gate 4.", answer.Answer)
	assert.Equal(t, []string{"2.3", "Unknown"}, answer.Sources)
	assert.EqualValues(t, 1, answer.ConversationID)

	status, out = call(t, h, http.MethodGet, "/v1/history?conversationId=1", "")
	require.Equal(t, http.StatusOK, status)
	var records []struct {
		HistoryID    uint64 `json:"historyId"`
		Question     string `json:"question"`
		IsBookmarked bool   `json:"isBookmarked"`
	}
	require.NoError(t, json.Unmarshal(out.Response, &records))
	require.Len(t, records, 1)
	assert.Equal(t, "Where?", records[0].Question)
	assert.False(t, records[0].IsBookmarked)

	status, out = call(t, h, http.MethodPut, "/v1/history/1/bookmark", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"historyId":1,"isBookmarked":true}`, string(out.Response))

	status, out = call(t, h, http.MethodGet, "/v1/history/bookmarked", "")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(out.Response, &records))
	assert.Len(t, records, 1)

	status, out = call(t, h, http.MethodDelete, "/v1/conversations/1", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message":"Conversation deleted"}`, string(out.Response))

	status, _ = call(t, h, http.MethodGet, "/v1/history?conversationId=1", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, out = call(t, h, http.MethodGet, "/v1/history/bookmarked", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(out.Response))

	status, _ = call(t, h, http.MethodGet, "/v1/conversations", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAskWithoutConversationStartsOne(t *testing.T) {
	h := newServer(t)

	status, out := call(t, h, http.MethodPost, "/v1/ask", `{"question":"Where?"}`)
	require.Equal(t, http.StatusOK, status)
	var answer struct {
		ConversationID uint64 `json:"conversationId"`
	}
	require.NoError(t, json.Unmarshal(out.Response, &answer))
	assert.NotZero(t, answer.ConversationID)

	status, out = call(t, h, http.MethodGet, "/v1/conversations", "")
	require.Equal(t, http.StatusOK, status)
	var items []struct {
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(out.Response, &items))
	require.Len(t, items, 1)
	assert.Equal(t, conversation.DefaultTitle, items[0].Title)
}
