package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisClient is the subset of *redis.Client the snapshot store uses.
type redisClient interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisSnapshots stores session snapshots as JSON values with a TTL.
type RedisSnapshots struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

var _ SnapshotStore = (*RedisSnapshots)(nil)

// NewRedisSnapshots wraps client. Keys are prefix + session id; a zero ttl
// keeps snapshots forever.
func NewRedisSnapshots(client redisClient, prefix string, ttl time.Duration) *RedisSnapshots {
	if prefix == "" {
		prefix = "futqa:session:"
	}
	return &RedisSnapshots{client: client, prefix: prefix, ttl: ttl}
}

// DialRedis parses a redis:// URL and checks the server answers.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("memory: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("memory: connect to redis: %w", err)
	}
	return client, nil
}

func (r *RedisSnapshots) key(id string) string { return r.prefix + id }

func (r *RedisSnapshots) Save(ctx context.Context, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("memory: encode snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key(snap.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("memory: save snapshot %s: %w", snap.ID, err)
	}
	return nil
}

func (r *RedisSnapshots) Load(ctx context.Context, id string) (Snapshot, error) {
	data, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, fmt.Errorf("memory: load snapshot %s: %w", id, err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("memory: decode snapshot %s: %w", id, err)
	}
	return snap, nil
}

func (r *RedisSnapshots) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("memory: delete snapshot %s: %w", id, err)
	}
	return nil
}
