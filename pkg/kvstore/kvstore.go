package kvstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound signals a missing key. Callers that can degrade to a
// default value should treat it as "empty", not as a failure.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the durable string-keyed storage surface. Values are plain
// strings; structured records go through GetJSON/SetJSON.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	HIncrBy(ctx context.Context, key, field string, delta int64) (int64, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Ping(ctx context.Context) error
}

// GetJSON decodes the JSON value stored at key into dest. A missing key
// or a malformed payload reports found=false and leaves dest untouched;
// the record degrades to its zero value instead of surfacing a decode
// failure to the caller.
func GetJSON(ctx context.Context, store Store, key string, dest any) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if json.Unmarshal([]byte(raw), dest) != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes value as JSON and overwrites the key. Last write wins.
func SetJSON(ctx context.Context, store Store, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, string(raw), ttl)
}
