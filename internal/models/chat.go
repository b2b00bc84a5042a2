package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one turn of a conversation stored in MongoDB.
// Role is either "user" or "assistant". Messages are append-only.
type ChatMessage struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	SessionID string             `json:"session_id" bson:"session_id"`
	UserID    string             `json:"user_id"    bson:"user_id"`
	Role      string             `json:"role"       bson:"role"`
	Content   string             `json:"content"    bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// DocumentStats summarizes the knowledge-base documents collection by
// ingestion status. Ingestion itself happens outside this service; we
// only report counts.
type DocumentStats struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Processing int64 `json:"processing"`
	Failed     int64 `json:"failed"`
}

// SendRequest is the JSON body for POST /api/chat.
type SendRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// SendResponse carries both turns produced by one chat exchange.
type SendResponse struct {
	SessionID string      `json:"session_id"`
	UserTurn  ChatMessage `json:"user_turn"`
	Assistant ChatMessage `json:"assistant_turn"`
}
