package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"trip-booking-server/internal/utils"
)

// keyPrefix namespaces session keys so the database can be shared with
// other uses of the same Redis instance.
const keyPrefix = "sess:"

// RedisStore keeps sessions in Redis with a per-key TTL. It is the
// preferred store: sessions survive process restarts and are shared
// between replicas.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore returns a store backed by the given client. The client
// must be non-nil; callers should fall back to NewMemoryStore when no
// Redis connection could be established.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

// Create opens a new session and returns its id. The data is stored as
// a JSON value under sess:<id> with the store's TTL.
func (s *RedisStore) Create(ctx context.Context, data Data) (string, error) {
	id, err := utils.NewSessionID()
	if err != nil {
		return "", err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Get resolves a session id. Redis expiry handles session timeouts, so
// a missing key simply maps to ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, id string) (Data, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Data{}, ErrNotFound
		}
		return Data{}, err
	}
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, err
	}
	return data, nil
}

// Touch slides the key's TTL forward so active users stay signed in.
// Touching an unknown or expired key returns ErrNotFound.
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	ok, err := s.rdb.Expire(ctx, keyPrefix+id, s.ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Destroy ends the session. Deleting an unknown key is not an error.
func (s *RedisStore) Destroy(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}
