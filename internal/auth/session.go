package auth

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"
)

// Session is the identity bound to one authenticated browser session.
// A session record exists only after a successful login; its fields are
// always populated together.
type Session struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Sessions is the session lifecycle: created on login, looked up on every
// gated request, deleted on logout. Get returns (nil, nil) for an unknown
// or expired id.
type Sessions interface {
	Create(ctx context.Context, sess Session) (string, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// RedisSessions stores sessions in Redis with a TTL.
type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Create(ctx context.Context, sess Session) (string, error) {
	sid := uuid.New().String()
	data, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, "session:"+sid, data, SessionTTL).Err(); err != nil {
		return "", err
	}
	return sid, nil
}

func (s *RedisSessions) Get(ctx context.Context, sessionID string) (*Session, error) {
	val, err := s.rdb.Get(ctx, "session:"+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *RedisSessions) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, "session:"+sessionID).Err()
}

// MemorySessions is a map-backed Sessions used in tests.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]Session)}
}

func (s *MemorySessions) Create(_ context.Context, sess Session) (string, error) {
	sid := uuid.New().String()
	s.mu.Lock()
	s.sessions[sid] = sess
	s.mu.Unlock()
	return sid, nil
}

func (s *MemorySessions) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemorySessions) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
