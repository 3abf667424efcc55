package repository

import (
	"context"

	"github.com/Guilherme-Denarde/coffee-orders/internal/cart/domain"
)

// CartRepository defines the interface for cart persistence operations. One
// cart exists per session ID; the session exclusively owns its cart, so saves
// are plain last-writer-wins overwrites.
type CartRepository interface {
	// Get retrieves a cart by its session ID.
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)

	// Save persists a cart, overwriting any existing cart for the session.
	Save(ctx context.Context, cart *domain.Cart) error

	// Delete removes the cart for the session.
	Delete(ctx context.Context, sessionID string) error
}
