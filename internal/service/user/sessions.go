package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/konselapp/konsel_backend/pkg/sessionmgr"
)

func redisKeySession(sessionID string) string { return "session:" + sessionID }

// SessionStore persists live sessions. Production uses Redis; tests use the
// in-memory store.
type SessionStore interface {
	Save(ctx context.Context, sessionID string, sess sessionmgr.Session, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (sessionmgr.Session, error)
	Delete(ctx context.Context, sessionID string) error
}

// ---------------------------------------------------------------------------
// Redis store
// ---------------------------------------------------------------------------

type redisSessionStore struct {
	rdb *redis.Client
}

func NewRedisSessionStore(rdb *redis.Client) SessionStore {
	return &redisSessionStore{rdb: rdb}
}

func (s *redisSessionStore) Save(ctx context.Context, sessionID string, sess sessionmgr.Session, ttl time.Duration) error {
	payload, err := sess.Encode()
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, redisKeySession(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (s *redisSessionStore) Load(ctx context.Context, sessionID string) (sessionmgr.Session, error) {
	raw, err := s.rdb.Get(ctx, redisKeySession(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sessionmgr.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return sessionmgr.Session{}, fmt.Errorf("load session: %w", err)
	}
	sess, err := sessionmgr.DecodeSession(raw)
	if err != nil {
		return sessionmgr.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *redisSessionStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, redisKeySession(sessionID)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Memory store
// ---------------------------------------------------------------------------

type memorySessionStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{data: map[string][]byte{}}
}

func (s *memorySessionStore) Save(_ context.Context, sessionID string, sess sessionmgr.Session, _ time.Duration) error {
	payload, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[sessionID] = payload
	s.mu.Unlock()
	return nil
}

func (s *memorySessionStore) Load(_ context.Context, sessionID string) (sessionmgr.Session, error) {
	s.mu.RLock()
	raw, ok := s.data[sessionID]
	s.mu.RUnlock()
	if !ok {
		return sessionmgr.Session{}, ErrSessionNotFound
	}
	return sessionmgr.DecodeSession(raw)
}

func (s *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.data, sessionID)
	s.mu.Unlock()
	return nil
}
