// Package redisstore adapts a Redis client to Fiber's session storage
// interface so sessions survive process restarts.
package redisstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Storage implements fiber.Storage over a Redis database.
type Storage struct {
	client *redis.Client
}

// Config holds Redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// New creates a Redis-backed session storage.
func New(cfg Config) *Storage {
	return &Storage{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Get returns the value for the key, or nil when the key does not exist.
func (s *Storage) Get(key string) ([]byte, error) {
	val, err := s.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return val, err
}

// Set stores the value under the key with the given expiration. A zero
// expiration stores the key without a TTL.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	return s.client.Set(context.Background(), key, val, exp).Err()
}

// Delete removes the key.
func (s *Storage) Delete(key string) error {
	return s.client.Del(context.Background(), key).Err()
}

// Reset flushes the database.
func (s *Storage) Reset() error {
	return s.client.FlushDB(context.Background()).Err()
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}
