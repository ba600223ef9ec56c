package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordKey holds the whole record as one JSON value so session id and
// expiry are always written and read as a pair.
const recordKey = "portal:session"

// RedisStore is the Redis-backed session persistence. The key TTL is set
// to the record lifetime as a backstop, but validity is always judged
// against the stored expiry timestamp, not the TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) Create(ctx context.Context) (Record, error) {
	id, err := GenerateID()
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		SessionID: id,
		ExpiresAt: time.Now().Add(Lifetime),
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("session: failed to marshal: %w", err)
	}

	if err := r.client.Set(ctx, recordKey, data, Lifetime).Err(); err != nil {
		return Record{}, err
	}

	return rec, nil
}

func (r *RedisStore) ReadIfValid(ctx context.Context) (*Record, bool, error) {
	val, err := r.client.Get(ctx, recordKey).Result()
	if err == redis.Nil {
		return nil, false, nil // no record
	}
	if err != nil {
		return nil, false, err
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, false, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	if !time.Now().Before(rec.ExpiresAt) {
		// Expired records are not left lying around.
		if err := r.client.Del(ctx, recordKey).Err(); err != nil {
			return nil, true, err
		}
		return nil, true, nil
	}

	return &rec, false, nil
}

func (r *RedisStore) Delete(ctx context.Context) error {
	return r.client.Del(ctx, recordKey).Err()
}
