package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "livery:session:user"

// SessionRepository keeps the single active access token per user. Logging in elsewhere replaces it.
type SessionRepository struct {
	Client *redis.Client
	TTL    time.Duration
}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", sessionKeyPrefix, userID)
}

func (r *SessionRepository) Save(ctx context.Context, userID uint64, token string) error {
	return r.Client.Set(ctx, r.key(userID), token, r.TTL).Err()
}

func (r *SessionRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.Client.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrSessionNotFound
	}
	return token, err
}

// Touch slides the session expiry forward.
func (r *SessionRepository) Touch(ctx context.Context, userID uint64) error {
	return r.Client.Expire(ctx, r.key(userID), r.TTL).Err()
}

func (r *SessionRepository) Delete(ctx context.Context, userID uint64) error {
	return r.Client.Del(ctx, r.key(userID)).Err()
}
