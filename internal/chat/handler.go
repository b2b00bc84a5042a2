package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayush/vexa-chat/internal/auth"
	"github.com/ayush/vexa-chat/internal/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// MessageStore defines the interface for transcript and document-stat reads.
type MessageStore interface {
	AppendMessage(ctx context.Context, msg *models.ChatMessage) error
	ListMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error)
	DocumentStats(ctx context.Context) (*models.DocumentStats, error)
}

// Relayer sends one chat turn to the answer-generation webhook.
type Relayer interface {
	Send(ctx context.Context, message, sessionID, userID string) (string, error)
}

// Handler holds chat HTTP handlers.
type Handler struct {
	store  MessageStore
	relay  Relayer
	logger *slog.Logger
}

func NewHandler(store MessageStore, relay Relayer, logger *slog.Logger) *Handler {
	return &Handler{store: store, relay: relay, logger: logger}
}

// Send processes one chat turn: records the user message, relays it to
// the webhook, records the reply, and returns both turns. The user turn
// stays recorded even when the relay fails.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFromContext(r.Context())

	var req models.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	userTurn := models.ChatMessage{
		SessionID: req.SessionID,
		UserID:    sess.UserID,
		Role:      "user",
		Content:   req.Message,
	}
	if err := h.store.AppendMessage(r.Context(), &userTurn); err != nil {
		h.logger.Warn("record user turn failed", "session_id", req.SessionID, "error", err)
	}

	reply, err := h.relay.Send(r.Context(), req.Message, req.SessionID, sess.UserID)
	if err != nil {
		h.logger.Error("webhook relay failed", "session_id", req.SessionID, "error", err)
		if errors.Is(err, ErrTimeout) {
			writeError(w, http.StatusGatewayTimeout, ErrTimeout.Error())
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	assistantTurn := models.ChatMessage{
		SessionID: req.SessionID,
		UserID:    sess.UserID,
		Role:      "assistant",
		Content:   reply,
	}
	if err := h.store.AppendMessage(r.Context(), &assistantTurn); err != nil {
		h.logger.Warn("record assistant turn failed", "session_id", req.SessionID, "error", err)
	}

	writeJSON(w, http.StatusOK, models.SendResponse{
		SessionID: req.SessionID,
		UserTurn:  userTurn,
		Assistant: assistantTurn,
	})
}

// History returns the ordered transcript for one chat session.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	msgs, err := h.store.ListMessagesBySession(r.Context(), sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

// Stats returns knowledge-base document counts for the sidebar.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.DocumentStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
