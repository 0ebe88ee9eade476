package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuard(t *testing.T, ttl time.Duration) (*SubmitGuard, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewSubmitGuard(redis.NewClient(&redis.Options{Addr: mr.Addr()}), ttl), mr
}

func TestSubmitGuardAcquireAndRelease(t *testing.T) {
	guard, _ := newGuard(t, time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, ok, "lock already held")

	// A different customer is unaffected.
	ok, err = guard.Acquire(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, ok)

	guard.Release(ctx, "u1")
	ok, err = guard.Acquire(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok, "lock free after release")
}

func TestSubmitGuardTTLExpiry(t *testing.T) {
	guard, mr := newGuard(t, time.Minute)
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Minute)

	ok, err = guard.Acquire(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok, "crashed submission must not wedge the customer")
}

func TestSubmitGuardNilPermits(t *testing.T) {
	var guard *SubmitGuard
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, ok)
	guard.Release(ctx, "u1")
}
