package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/vexa-chat/internal/models"
)

// MongoStore holds the chat transcript and document-status collections.
// Documents are written by the external ingestion pipeline; this service
// only reads their status counts.
type MongoStore struct {
	messages  *mongo.Collection
	documents *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		messages:  db.Collection("chat_messages"),
		documents: db.Collection("documents"),
	}
}

// AppendMessage stores one chat turn. Messages are never mutated.
func (s *MongoStore) AppendMessage(ctx context.Context, msg *models.ChatMessage) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	res, err := s.messages.InsertOne(ctx, msg)
	if err != nil {
		return fmt.Errorf("mongo insert message: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// ListMessagesBySession returns the ordered transcript for one session.
func (s *MongoStore) ListMessagesBySession(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.messages.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []models.ChatMessage
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// DocumentStats counts knowledge-base documents by ingestion status.
func (s *MongoStore) DocumentStats(ctx context.Context) (*models.DocumentStats, error) {
	var stats models.DocumentStats
	var err error

	if stats.Total, err = s.documents.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, fmt.Errorf("mongo count documents: %w", err)
	}
	if stats.Completed, err = s.documents.CountDocuments(ctx, bson.M{"status": "completed"}); err != nil {
		return nil, err
	}
	if stats.Processing, err = s.documents.CountDocuments(ctx, bson.M{"status": "processing"}); err != nil {
		return nil, err
	}
	if stats.Failed, err = s.documents.CountDocuments(ctx, bson.M{"status": "failed"}); err != nil {
		return nil, err
	}
	return &stats, nil
}
