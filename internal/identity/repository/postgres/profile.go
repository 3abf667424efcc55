package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Guilherme-Denarde/coffee-orders/internal/identity/domain"
	"github.com/Guilherme-Denarde/coffee-orders/pkg/database"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
)

// ProfileRepository implements repository.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	pool database.DBTX
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(pool database.DBTX) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Upsert inserts the profile or refreshes its mutable fields on conflict. The
// coffee_maker flag keeps its stored value so a re-login cannot demote staff.
func (r *ProfileRepository) Upsert(ctx context.Context, p *domain.Profile) (*domain.Profile, error) {
	now := time.Now().UTC()

	query := `
		INSERT INTO profiles (uid, email, name, photo_url, coffee_maker, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $5)
		ON CONFLICT (uid) DO UPDATE
		SET email = EXCLUDED.email, name = EXCLUDED.name, photo_url = EXCLUDED.photo_url, updated_at = EXCLUDED.updated_at
		RETURNING uid, email, name, photo_url, coffee_maker, created_at, updated_at`

	var stored domain.Profile
	err := r.pool.QueryRow(ctx, query, p.UID, p.Email, p.Name, p.PhotoURL, now).Scan(
		&stored.UID,
		&stored.Email,
		&stored.Name,
		&stored.PhotoURL,
		&stored.CoffeeMaker,
		&stored.CreatedAt,
		&stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return &stored, nil
}

// GetByUID retrieves a profile by the provider uid.
func (r *ProfileRepository) GetByUID(ctx context.Context, uid string) (*domain.Profile, error) {
	query := `
		SELECT uid, email, name, photo_url, coffee_maker, created_at, updated_at
		FROM profiles
		WHERE uid = $1`

	var p domain.Profile
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&p.UID,
		&p.Email,
		&p.Name,
		&p.PhotoURL,
		&p.CoffeeMaker,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("profile", uid)
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	return &p, nil
}

// SetCoffeeMaker flips the staff flag for a profile.
func (r *ProfileRepository) SetCoffeeMaker(ctx context.Context, uid string, coffeeMaker bool) error {
	query := `
		UPDATE profiles
		SET coffee_maker = $1, updated_at = $2
		WHERE uid = $3`

	ct, err := r.pool.Exec(ctx, query, coffeeMaker, time.Now().UTC(), uid)
	if err != nil {
		return fmt.Errorf("update coffee_maker flag: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("profile", uid)
	}

	return nil
}
