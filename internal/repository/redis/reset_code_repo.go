package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	resetCodeKeyPrefix = "livery:reset"
	// DefaultMaxResetAttempts is how many wrong guesses burn a code.
	DefaultMaxResetAttempts = 5
)

// consumeScript deletes the code when it matches, so a code works exactly once.
// A miss increments the attempt counter, which shares the code's TTL; reaching
// the limit deletes both keys.
var consumeScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
if val == ARGV[1] then
  redis.call("DEL", KEYS[1], KEYS[2])
  return 1
end
local n = redis.call("INCR", KEYS[2])
if n == 1 then
  local ttl = redis.call("PTTL", KEYS[1])
  if ttl > 0 then
    redis.call("PEXPIRE", KEYS[2], ttl)
  end
end
if n >= tonumber(ARGV[2]) then
  redis.call("DEL", KEYS[1], KEYS[2])
end
return 0
`)

type ResetCodeRepository struct {
	Client *redis.Client
	TTL    time.Duration
	// MaxAttempts defaults to DefaultMaxResetAttempts when zero.
	MaxAttempts int
}

// keys returns the code and attempt keys. The hash tag keeps them in one cluster slot.
func (r *ResetCodeRepository) keys(email string) (code, attempts string) {
	base := fmt.Sprintf("%s:{%s}", resetCodeKeyPrefix, strings.ToLower(email))
	return base + ":code", base + ":attempts"
}

func (r *ResetCodeRepository) maxAttempts() int {
	if r.MaxAttempts > 0 {
		return r.MaxAttempts
	}
	return DefaultMaxResetAttempts
}

// Save stores a code for the address, replacing any earlier one and its attempt count.
func (r *ResetCodeRepository) Save(ctx context.Context, email, code string) error {
	codeKey, attemptsKey := r.keys(email)
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, codeKey, code, r.TTL)
		pipe.Del(ctx, attemptsKey)
		return nil
	})
	return err
}

// Consume reports whether code matched the stored one; a match removes it.
func (r *ResetCodeRepository) Consume(ctx context.Context, email, code string) (bool, error) {
	codeKey, attemptsKey := r.keys(email)
	n, err := consumeScript.Run(ctx, r.Client, []string{codeKey, attemptsKey}, code, r.maxAttempts()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
