package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// FlashStore holds one-time messages keyed by session. A message put for a
// session is returned by exactly one Take and is gone afterwards.
type FlashStore interface {
	Put(ctx context.Context, sessionID, message string) error
	Take(ctx context.Context, sessionID string) (string, error)
}

// RedisFlashStore implements FlashStore on Redis.
// Key format: flash:<session_id>
type RedisFlashStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisFlashStore creates a RedisFlashStore. ttl caps how long an
// undelivered flash survives before expiring on its own.
func NewRedisFlashStore(client *redis.Client, ttl time.Duration) *RedisFlashStore {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisFlashStore{client: client, ttl: ttl}
}

func (s *RedisFlashStore) Put(ctx context.Context, sessionID, message string) error {
	return s.client.Set(ctx, flashKey(sessionID), message, s.ttl).Err()
}

// Take fetches and deletes the pending flash in one step (GETDEL), so the
// message cannot render twice even across concurrent page loads.
func (s *RedisFlashStore) Take(ctx context.Context, sessionID string) (string, error) {
	msg, err := s.client.GetDel(ctx, flashKey(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("flash take: %w", err)
	}
	return msg, nil
}

func flashKey(sessionID string) string {
	return "flash:" + sessionID
}

// MemFlashStore is an in-memory FlashStore for tests.
type MemFlashStore struct {
	mu   sync.Mutex
	msgs map[string]string
}

func NewMemFlashStore() *MemFlashStore {
	return &MemFlashStore{msgs: make(map[string]string)}
}

func (s *MemFlashStore) Put(_ context.Context, sessionID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs[sessionID] = message
	return nil
}

func (s *MemFlashStore) Take(_ context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.msgs[sessionID]
	delete(s.msgs, sessionID)
	return msg, nil
}
