package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/liverylibrary/backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient connects to REDIS_TEST_ADDR; the tests are skipped when it is unset.
func newTestClient(t *testing.T) *SessionRepository {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := NewClient(context.Background(), config.RedisConfig{Addr: addr, DB: 15})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return &SessionRepository{Client: client, TTL: time.Minute}
}

func TestSessionLifecycle(t *testing.T) {
	sessions := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, sessions.Save(ctx, 7, "token-a"))
	got, err := sessions.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "token-a", got)

	require.NoError(t, sessions.Touch(ctx, 7))
	require.NoError(t, sessions.Delete(ctx, 7))

	_, err = sessions.Get(ctx, 7)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestResetCodeConsumedOnce(t *testing.T) {
	sessions := newTestClient(t)
	codes := &ResetCodeRepository{Client: sessions.Client, TTL: time.Minute}
	ctx := context.Background()

	require.NoError(t, codes.Save(ctx, "Pilot@Example.com", "123456"))

	ok, err := codes.Consume(ctx, "pilot@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = codes.Consume(ctx, "pilot@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = codes.Consume(ctx, "pilot@example.com", "123456")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResetCodeBurnedAfterTooManyMisses(t *testing.T) {
	sessions := newTestClient(t)
	codes := &ResetCodeRepository{Client: sessions.Client, TTL: time.Minute, MaxAttempts: 3}
	ctx := context.Background()

	require.NoError(t, codes.Save(ctx, "guess@example.com", "123456"))
	for _, guess := range []string{"000001", "000002"} {
		ok, err := codes.Consume(ctx, "guess@example.com", guess)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err := codes.Consume(ctx, "guess@example.com", "123456")
	require.NoError(t, err)
	assert.True(t, ok, "the right code still works below the limit")

	require.NoError(t, codes.Save(ctx, "guess@example.com", "654321"))
	for _, guess := range []string{"000001", "000002", "000003"} {
		ok, err := codes.Consume(ctx, "guess@example.com", guess)
		require.NoError(t, err)
		assert.False(t, ok)
	}
	ok, err = codes.Consume(ctx, "guess@example.com", "654321")
	require.NoError(t, err)
	assert.False(t, ok, "the code is gone once the limit is reached")

	codeKey, attemptsKey := codes.keys("guess@example.com")
	n, err := sessions.Client.Exists(ctx, codeKey, attemptsKey).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestResetCodeSaveClearsAttempts(t *testing.T) {
	sessions := newTestClient(t)
	codes := &ResetCodeRepository{Client: sessions.Client, TTL: time.Minute, MaxAttempts: 2}
	ctx := context.Background()

	require.NoError(t, codes.Save(ctx, "again@example.com", "111111"))
	ok, err := codes.Consume(ctx, "again@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, codes.Save(ctx, "again@example.com", "222222"))
	ok, err = codes.Consume(ctx, "again@example.com", "000000")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = codes.Consume(ctx, "again@example.com", "222222")
	require.NoError(t, err)
	assert.True(t, ok)
}
