package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DraftKeyPrefix namespaces persisted drafts; the owner id follows it.
const DraftKeyPrefix = "create-event-draft:"

// DraftStore persists one serialized draft per owner. Load returns nil, nil
// when nothing is stored.
type DraftStore interface {
	Load(ctx context.Context, owner string) ([]byte, error)
	Save(ctx context.Context, owner string, payload []byte) error
	Clear(ctx context.Context, owner string) error
}

// MemoryStore keeps drafts in process memory.
type MemoryStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: map[string][]byte{}}
}

func (s *MemoryStore) Load(_ context.Context, owner string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload, ok := s.drafts[owner]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), payload...), nil
}

func (s *MemoryStore) Save(_ context.Context, owner string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[owner] = append([]byte(nil), payload...)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, owner)
	return nil
}

// RedisStore keeps drafts in Redis with a sliding expiry.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Load(ctx context.Context, owner string) ([]byte, error) {
	payload, err := s.rdb.Get(ctx, DraftKeyPrefix+owner).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	return payload, err
}

func (s *RedisStore) Save(ctx context.Context, owner string, payload []byte) error {
	return s.rdb.Set(ctx, DraftKeyPrefix+owner, payload, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, owner string) error {
	return s.rdb.Del(ctx, DraftKeyPrefix+owner).Err()
}
