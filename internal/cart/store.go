package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const defaultTTL = 2 * time.Hour

// Store persists carts in Redis, keyed by user id, with a TTL bounding the
// browsing session. A cart that was never saved (or has expired) loads as
// empty rather than as an error.
type Store struct {
	redis  *redis.Client
	tracer trace.Tracer
	ttl    time.Duration
}

func NewStore(redisClient *redis.Client, ttl time.Duration) *Store {
	if redisClient == nil {
		panic("cart: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{
		redis:  redisClient,
		tracer: otel.Tracer("gateway.internal.cart"),
		ttl:    ttl,
	}
}

// Save persists the cart and refreshes the session TTL.
func (s *Store) Save(ctx context.Context, userID string, c *Cart) error {
	ctx, span := s.tracer.Start(ctx, "cart.save")
	defer span.End()

	data, err := json.Marshal(c)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("cart: failed to marshal cart: %w", err)
	}
	if err := s.redis.Set(ctx, cartKey(userID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("cart: failed to persist cart: %w", err)
	}
	return nil
}

// Load retrieves the user's cart. A missing key yields nil, nil.
func (s *Store) Load(ctx context.Context, userID string) (*Cart, error) {
	ctx, span := s.tracer.Start(ctx, "cart.load")
	defer span.End()

	data, err := s.redis.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("cart: failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("cart: failed to decode cart: %w", err)
	}
	return &c, nil
}

// Clear discards the user's cart, e.g. after a completed checkout.
func (s *Store) Clear(ctx context.Context, userID string) error {
	ctx, span := s.tracer.Start(ctx, "cart.clear")
	defer span.End()

	if err := s.redis.Del(ctx, cartKey(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("cart: failed to clear cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
