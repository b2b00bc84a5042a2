package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/vexa-chat/internal/auth"
	"github.com/ayush/vexa-chat/internal/models"
)

type fakeMessageStore struct {
	appended []models.ChatMessage
	history  []models.ChatMessage
	stats    models.DocumentStats
}

func (f *fakeMessageStore) AppendMessage(_ context.Context, msg *models.ChatMessage) error {
	f.appended = append(f.appended, *msg)
	return nil
}

func (f *fakeMessageStore) ListMessagesBySession(_ context.Context, sessionID string) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, m := range f.history {
		if m.SessionID == sessionID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageStore) DocumentStats(_ context.Context) (*models.DocumentStats, error) {
	return &f.stats, nil
}

type fakeRelay struct {
	reply string
	err   error
	calls int
}

func (f *fakeRelay) Send(_ context.Context, message, sessionID, userID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	sess := &auth.Session{UserID: "u1", Username: "alice", Email: "a@x.com"}
	return req.WithContext(auth.NewContext(req.Context(), sess))
}

func newChatHandler(store *fakeMessageStore, relay *fakeRelay) *Handler {
	return NewHandler(store, relay, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSendRecordsBothTurns(t *testing.T) {
	store := &fakeMessageStore{}
	relay := &fakeRelay{reply: "hello"}
	h := newChatHandler(store, relay)

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/chat", `{"message":"hi","session_id":"sess-1"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.appended, 2)
	assert.Equal(t, "user", store.appended[0].Role)
	assert.Equal(t, "hi", store.appended[0].Content)
	assert.Equal(t, "assistant", store.appended[1].Role)
	assert.Equal(t, "hello", store.appended[1].Content)
	assert.Equal(t, "u1", store.appended[0].UserID)

	var resp models.SendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "sess-1", resp.SessionID)
	assert.Equal(t, "hello", resp.Assistant.Content)
}

func TestSendGeneratesSessionID(t *testing.T) {
	store := &fakeMessageStore{}
	h := newChatHandler(store, &fakeRelay{reply: "ok"})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/chat", `{"message":"hi"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestSendEmptyMessageRejectedLocally(t *testing.T) {
	store := &fakeMessageStore{}
	relay := &fakeRelay{reply: "ok"}
	h := newChatHandler(store, relay)

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`} {
		rec := httptest.NewRecorder()
		h.Send(rec, authedRequest(http.MethodPost, "/api/chat", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
	assert.Zero(t, relay.calls)
	assert.Empty(t, store.appended)
}

func TestSendRelayFailureKeepsUserTurn(t *testing.T) {
	store := &fakeMessageStore{}
	relay := &fakeRelay{err: errors.New("webhook returned 502: bad gateway")}
	h := newChatHandler(store, relay)

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/chat", `{"message":"hi","session_id":"s"}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	require.Len(t, store.appended, 1)
	assert.Equal(t, "user", store.appended[0].Role)
}

func TestSendTimeoutMapsToGatewayTimeout(t *testing.T) {
	h := newChatHandler(&fakeMessageStore{}, &fakeRelay{err: ErrTimeout})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/chat", `{"message":"hi"}`))

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
}

func TestHistoryRequiresSessionID(t *testing.T) {
	h := newChatHandler(&fakeMessageStore{}, &fakeRelay{})

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest(http.MethodGet, "/api/chat/history", ""))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryReturnsOrderedTranscript(t *testing.T) {
	store := &fakeMessageStore{history: []models.ChatMessage{
		{SessionID: "s1", Role: "user", Content: "hi"},
		{SessionID: "s1", Role: "assistant", Content: "hello"},
		{SessionID: "s2", Role: "user", Content: "other"},
	}}
	h := newChatHandler(store, &fakeRelay{})

	rec := httptest.NewRecorder()
	h.History(rec, authedRequest(http.MethodGet, "/api/chat/history?session_id=s1", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []models.ChatMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	require.Len(t, msgs, 2)
	assert.Equal(t, "hi", msgs[0].Content)
	assert.Equal(t, "hello", msgs[1].Content)
}

func TestStats(t *testing.T) {
	store := &fakeMessageStore{stats: models.DocumentStats{Total: 25, Completed: 22, Processing: 2, Failed: 1}}
	h := newChatHandler(store, &fakeRelay{})

	rec := httptest.NewRecorder()
	h.Stats(rec, authedRequest(http.MethodGet, "/api/chat/stats", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	var stats models.DocumentStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(25), stats.Total)
	assert.Equal(t, int64(22), stats.Completed)
}
