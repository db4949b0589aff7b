// Package redisstore хранит записи сессии в Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iudanet/fishlog/internal/client/storage"
)

// DefaultPrefix is used when Options.Prefix is empty
const DefaultPrefix = "fishlog:session"

// Options описывает подключение к Redis
type Options struct {
	Addr        string
	Username    string
	Password    string
	Prefix      string
	DB          int
	DialTimeout time.Duration
}

// Storage represents Redis session storage implementation for client
type Storage struct {
	client *redis.Client
	prefix string
}

// Compile-time check that Storage implements storage.SessionStorage
var _ storage.SessionStorage = (*Storage)(nil)

// New connects to Redis and checks the connection
func New(ctx context.Context, opts Options) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Username:    opts.Username,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewFromClient(client, opts.Prefix), nil
}

// NewFromClient wraps an existing client. Close closes the client.
func NewFromClient(client *redis.Client, prefix string) *Storage {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Storage{client: client, prefix: prefix}
}

// Close closes the redis client
func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) key(name string) string {
	return s.prefix + ":" + name
}

func (s *Storage) keys() []string {
	names := storage.Keys()
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, s.key(name))
	}
	return keys
}

// SaveEntries stores all session entries in one MULTI/EXEC transaction
func (s *Storage) SaveEntries(ctx context.Context, entries *storage.Entries) error {
	if entries == nil {
		return fmt.Errorf("session entries are nil")
	}

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, name := range storage.Keys() {
			value := entries.Value(name)
			if value == "" {
				pipe.Del(ctx, s.key(name))
				continue
			}
			pipe.Set(ctx, s.key(name), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save session entries: %w", err)
	}
	return nil
}

// GetEntries retrieves all session entries with a single MGET
func (s *Storage) GetEntries(ctx context.Context) (*storage.Entries, error) {
	values, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session entries: %w", err)
	}

	entries := &storage.Entries{}
	for i, name := range storage.Keys() {
		// Отсутствующие ключи приходят как nil
		if value, ok := values[i].(string); ok {
			entries.Set(name, value)
		}
	}
	return entries, nil
}

// GetToken retrieves the access token only
func (s *Storage) GetToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key(storage.KeyToken)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get token: %w", err)
	}
	return token, nil
}

// DeleteEntries removes all session entries (logout)
func (s *Storage) DeleteEntries(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("failed to delete session entries: %w", err)
	}
	return nil
}
