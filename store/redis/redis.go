// Package redis provides a durable store.StateStore backed by Redis.
// Snapshots are stored as JSON under a configurable key prefix with an
// optional TTL, matching the at-most-one-writer-per-thread contract of
// the state store boundary.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hupe1980/pmcopilot/core"
	"github.com/hupe1980/pmcopilot/store"
)

// Options configure the redis-backed state store.
type Options struct {
	// KeyPrefix namespaces conversation keys (default "pmcopilot:thread:").
	KeyPrefix string
	// TTL expires idle conversations; zero keeps them forever.
	TTL time.Duration
}

// Store persists conversation state in Redis.
type Store struct {
	client *redis.Client
	opts   Options
}

var _ store.StateStore = (*Store)(nil)

// New wraps an existing Redis client as a StateStore.
func New(client *redis.Client, optFns ...func(o *Options)) *Store {
	opts := Options{KeyPrefix: "pmcopilot:thread:"}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{client: client, opts: opts}
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Load implements store.StateStore.
func (s *Store) Load(ctx context.Context, threadID string) (*core.ConversationState, error) {
	data, err := s.client.Get(ctx, s.key(threadID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return decodeState(data)
}

// Save implements store.StateStore.
func (s *Store) Save(ctx context.Context, threadID string, state *core.ConversationState) error {
	data, err := encodeState(state)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(threadID), data, s.opts.TTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *Store) key(threadID string) string { return s.opts.KeyPrefix + threadID }
