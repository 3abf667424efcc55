package repository

import (
	"context"

	"github.com/Guilherme-Denarde/coffee-orders/internal/identity/domain"
)

// ProfileRepository defines the interface for profile persistence operations.
type ProfileRepository interface {
	// Upsert inserts the profile or refreshes its email/name/photo fields.
	// The coffee_maker flag is never touched by an upsert.
	Upsert(ctx context.Context, profile *domain.Profile) (*domain.Profile, error)

	// GetByUID retrieves a profile by the provider uid.
	GetByUID(ctx context.Context, uid string) (*domain.Profile, error)

	// SetCoffeeMaker flips the staff flag for a profile.
	SetCoffeeMaker(ctx context.Context, uid string, coffeeMaker bool) error
}
