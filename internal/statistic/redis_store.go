package statistic

import (
	"context"
	"errors"
	"fmt"
	"ghstats/internal/providers"
	"ghstats/internal/statistic/interfaces"
	"ghstats/internal/structures"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ghstats:snapshot:"

// RedisStore keeps one string value per key. Values expire natively after ttl as a
// secondary bound; SnapshotCache still checks the entry timestamp.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func NewRedisStoreWithURL(url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisStore(redis.NewClient(opts), ttl), nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, interfaces.ErrBlobNotFound
		}
		return nil, err
	}
	return data, nil
}

// Write is a single SET, which replaces the value atomically.
func (r *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err()
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

func (r *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, strings.TrimPrefix(iter.Val(), redisKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return keys, nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// NewBlobStore picks the snapshot backend named by snapshotCache.driver.
func NewBlobStore(conf *structures.Config, logger providers.Logger) (interfaces.BlobStore, error) {
	switch conf.SnapshotCache.Driver {
	case "redis":
		store, err := NewRedisStoreWithURL(conf.SnapshotCache.RedisURL, conf.SnapshotCache.TTL)
		if err != nil {
			return nil, err
		}
		logger.Infof(providers.TypeCache, "Snapshot cache backed by redis")
		return store, nil
	case "", "file":
		logger.Infof(providers.TypeCache, "Snapshot cache backed by files in %s", conf.SnapshotCache.Dir)
		return NewFileStore(conf.SnapshotCache.Dir, conf.SnapshotCache.Compress), nil
	default:
		return nil, fmt.Errorf("unknown snapshot cache driver %q", conf.SnapshotCache.Driver)
	}
}
