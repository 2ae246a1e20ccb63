// Package session keeps the server-side record of signed-in users in Redis.
// The JWT cookie proves who the caller claims to be; the Redis entry proves
// the session has not been revoked by a logout.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	return &Store{
		redis: redisClient,
		ttl:   ttl,
	}
}

func key(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// Create records a session token for the user.
func (s *Store) Create(ctx context.Context, token string, userID uuid.UUID) error {
	return s.redis.Set(ctx, key(token), userID.String(), s.ttl).Err()
}

// Get resolves a session token back to a user id.
func (s *Store) Get(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := s.redis.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return id, nil
}

// Delete revokes a session.
func (s *Store) Delete(ctx context.Context, token string) error {
	return s.redis.Del(ctx, key(token)).Err()
}
