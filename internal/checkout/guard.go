package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// SubmitGuard prevents duplicate submissions: while one checkout is in
// flight for a customer, further attempts are refused. The lock is held in
// Redis (SET NX with a TTL so a crashed submission cannot wedge the
// customer) and released when the submission reaches a terminal state.
//
// A nil guard permits everything, which keeps single-collaborator unit tests
// free of Redis.
type SubmitGuard struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewSubmitGuard(redisClient *redis.Client, ttl time.Duration) *SubmitGuard {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &SubmitGuard{redis: redisClient, ttl: ttl}
}

// Acquire takes the customer's submission lock. It returns false when a
// submission is already in flight.
func (g *SubmitGuard) Acquire(ctx context.Context, customerID string) (bool, error) {
	if g == nil || g.redis == nil {
		return true, nil
	}
	ok, err := g.redis.SetNX(ctx, lockKey(customerID), "1", g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("checkout: acquire submit lock: %w", err)
	}
	return ok, nil
}

// Release frees the lock. Failures are ignored: the TTL bounds the damage.
func (g *SubmitGuard) Release(ctx context.Context, customerID string) {
	if g == nil || g.redis == nil {
		return
	}
	g.redis.Del(ctx, lockKey(customerID))
}

func lockKey(customerID string) string {
	return fmt.Sprintf("checkout:inflight:%s", customerID)
}
