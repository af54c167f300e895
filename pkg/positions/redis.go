package positions

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/braunma/netmap/internal/constants"
)

// RedisOptions configures the shared position backend
type RedisOptions struct {
	Address  string
	Password string
	DB       int
	UseTLS   bool
	Key      string
}

// RedisBackend stores positions in one Redis hash (field = device id, value = JSON)
// so several netmap instances can share a view.
type RedisBackend struct {
	client *redis.Client
	key    string
}

// NewRedisBackend connects and pings Redis
func NewRedisBackend(ctx context.Context, opts RedisOptions) (*RedisBackend, error) {
	if opts.Address == "" {
		return nil, fmt.Errorf("redis address not configured")
	}
	if opts.Key == "" {
		opts.Key = constants.DefaultRedisKey
	}

	options := &redis.Options{
		Addr:         opts.Address,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     4,
		MaxRetries:   3,
	}
	if opts.UseTLS {
		options.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisBackend{client: client, key: opts.Key}, nil
}

// Key returns the hash key holding the positions
func (b *RedisBackend) Key() string {
	return b.key
}

// Load reads the hash. Fields that do not decode are skipped.
func (b *RedisBackend) Load(ctx context.Context) (map[string]Position, error) {
	fields, err := b.client.HGetAll(ctx, b.key).Result()
	if err == redis.Nil {
		return map[string]Position{}, nil
	}
	if err != nil {
		return nil, err
	}

	positions := make(map[string]Position, len(fields))
	for id, raw := range fields {
		var pos Position
		if err := json.Unmarshal([]byte(raw), &pos); err != nil {
			continue
		}
		positions[id] = pos
	}
	return positions, nil
}

// Save replaces the hash contents atomically
func (b *RedisBackend) Save(ctx context.Context, positions map[string]Position) error {
	values := make(map[string]interface{}, len(positions))
	for id, pos := range positions {
		data, err := json.Marshal(pos)
		if err != nil {
			return fmt.Errorf("marshal failed: %w", err)
		}
		values[id] = string(data)
	}

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, b.key)
		if len(values) > 0 {
			pipe.HSet(ctx, b.key, values)
		}
		return nil
	})
	return err
}

// Clear deletes the hash
func (b *RedisBackend) Clear(ctx context.Context) error {
	return b.client.Del(ctx, b.key).Err()
}

// Close releases the connection pool
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
