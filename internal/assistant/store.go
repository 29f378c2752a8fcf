package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const transcriptTTL = 24 * time.Hour

// RedisStore keeps transcripts in Redis with a daily TTL; a conversation is
// scoped to one date anyway.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a transcript store on client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Load(ctx context.Context, key string) (session, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return session{}, false, nil
	}
	if err != nil {
		return session{}, false, err
	}
	var s session
	if err := json.Unmarshal(raw, &s); err != nil {
		return session{}, false, err
	}
	return s, true, nil
}

func (r *RedisStore) Save(ctx context.Context, key string, s session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, raw, transcriptTTL).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// MemoryStore is a map-backed transcript store for dev and tests.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]session
}

// NewMemoryStore creates an empty in-memory transcript store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]session)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[key]
	return s, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, s session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key] = s
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}
