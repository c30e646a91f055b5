package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisGateway keeps the whole document as one JSON string value.
type RedisGateway struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// SnapshotKey returns the key the document is stored under for namespace.
func SnapshotKey(namespace string) string {
	if namespace == "" {
		namespace = "default"
	}
	return fmt.Sprintf("wordle:%s:snapshot", namespace)
}

// OpenRedis connects to addr and verifies the server answers PING.
func OpenRedis(ctx context.Context, addr, namespace string) (*RedisGateway, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, persistErr("ping redis at "+addr, err)
	}
	return NewRedisGateway(client, namespace), nil
}

// NewRedisGateway wraps an existing client. The gateway takes ownership of it.
func NewRedisGateway(client *redis.Client, namespace string) *RedisGateway {
	return &RedisGateway{client: client, key: SnapshotKey(namespace), now: defaultNow}
}

// Save overwrites the snapshot key.
func (r *RedisGateway) Save(ctx context.Context, snap Snapshot) error {
	b, err := json.Marshal(toDocument(snap))
	if err != nil {
		return persistErr("encode snapshot", err)
	}
	if err := r.client.Set(ctx, r.key, b, 0).Err(); err != nil {
		return persistErr("set "+r.key, err)
	}
	return nil
}

// Load reads the snapshot key. A missing key is ErrNoState.
func (r *RedisGateway) Load(ctx context.Context) (Snapshot, error) {
	b, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, ErrNoState
	}
	if err != nil {
		return Snapshot{}, persistErr("get "+r.key, err)
	}
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return Snapshot{}, persistErr("decode "+r.key, fmt.Errorf("%w: %w", ErrCorrupt, err))
	}
	return toSnapshot(doc, r.now()), nil
}

// Close closes the client.
func (r *RedisGateway) Close() error { return r.client.Close() }
