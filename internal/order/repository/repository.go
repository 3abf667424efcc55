package repository

import (
	"context"
	"time"

	"github.com/Guilherme-Denarde/coffee-orders/internal/order/domain"
)

// OrderFilter defines filter criteria for listing orders.
type OrderFilter struct {
	Status  *string
	Email   *string
	Page    int
	PerPage int
}

// OrderRepository defines the interface for order persistence operations.
type OrderRepository interface {
	// Create inserts an order and its items into the store atomically.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by its unique identifier, including items.
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// List returns orders matching the filter, newest first, with the total count.
	List(ctx context.Context, filter OrderFilter) ([]domain.Order, int, error)

	// UpdateStatus overwrites the status of an order and bumps updated_at.
	UpdateStatus(ctx context.Context, id string, status string) error

	// Delete permanently removes an order and its items.
	Delete(ctx context.Context, id string) error
}

// IdempotencyStore reserves client-generated idempotency keys so duplicate
// checkout submissions collapse onto one order.
type IdempotencyStore interface {
	// Reserve claims the key for orderID. If the key was already claimed, the
	// winning order ID is returned with created=false.
	Reserve(ctx context.Context, key, orderID string, ttl time.Duration) (existingID string, created bool, err error)

	// Release frees a reservation whose order never got persisted, so a retry
	// with the same key can claim it fresh instead of resolving to a missing
	// order for the rest of the TTL.
	Release(ctx context.Context, key string) error
}
