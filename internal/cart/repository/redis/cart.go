// Package redis keeps carts as JSON blobs under a per-session key. A cart is
// ephemeral by nature, so every write refreshes the TTL and an expired cart
// simply reads as not found.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Guilherme-Denarde/coffee-orders/internal/cart/domain"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
)

const keyPrefix = "cart:"

func cartKey(sessionID string) string {
	return keyPrefix + sessionID
}

// CartRepository implements repository.CartRepository on Redis.
type CartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRepository(client *redis.Client, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

// Get loads the cart for sessionID. A missing or expired key maps to
// ErrNotFound so callers can treat both the same way.
func (r *CartRepository) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NotFound("cart", sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &cart, nil
}

// Save writes the full cart snapshot and restarts its TTL. The session owns
// its cart exclusively, so last writer wins is the intended semantics.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, cartKey(cart.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

// Delete drops the cart. Deleting a cart that does not exist is not an error.
func (r *CartRepository) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
