package store

import (
	"context"
	"time"

	"marketplace/internal/redisclient"

	"github.com/pkg/errors"
)

const saveLockTTL = 5 * time.Second

// RedisBackend keeps the document under a single Redis key
type RedisBackend struct {
	client *redisclient.Client
	key    string
}

// NewRedisBackend creates a backend storing the document at key
func NewRedisBackend(client *redisclient.Client, key string) *RedisBackend {
	return &RedisBackend{client: client, key: key}
}

func (r *RedisBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := r.client.GetDocument(ctx, r.key)
	if err != nil {
		return nil, errors.Wrap(err, "redis backend load")
	}
	return data, nil
}

// Save replaces the document while holding a short write lock so two
// processes pointed at the same key never interleave their writes.
func (r *RedisBackend) Save(ctx context.Context, data []byte) error {
	ok, err := r.client.AcquireLock(ctx, r.key, saveLockTTL)
	if err != nil {
		return errors.Wrap(err, "redis backend lock")
	}
	if !ok {
		return errors.Errorf("redis backend: document %s is being written by another process", r.key)
	}
	defer r.client.ReleaseLock(context.Background(), r.key)

	if err := r.client.SetDocument(ctx, r.key, data); err != nil {
		return errors.Wrap(err, "redis backend save")
	}
	return nil
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
