package service

import (
	"context"
	"log/slog"

	"github.com/Guilherme-Denarde/coffee-orders/internal/identity/domain"
	"github.com/Guilherme-Denarde/coffee-orders/internal/identity/repository"
	apperrors "github.com/Guilherme-Denarde/coffee-orders/pkg/errors"
)

// ProfileService handles profile business logic.
type ProfileService struct {
	repo   repository.ProfileRepository
	logger *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(repo repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{repo: repo, logger: logger}
}

// EnsureProfileInput carries the identity fields taken from a validated token
// on sign-in.
type EnsureProfileInput struct {
	UID      string
	Email    string
	Name     string
	PhotoURL string
}

// EnsureProfile records the sign-in, creating the profile on first sight and
// refreshing email/name/photo on every later one. A persistence failure is not
// fatal to the sign-in: the caller gets a profile built from the token fields
// and the error is only logged.
func (s *ProfileService) EnsureProfile(ctx context.Context, input EnsureProfileInput) (*domain.Profile, error) {
	if input.UID == "" {
		return nil, apperrors.InvalidInput("uid is required")
	}

	stored, err := s.repo.Upsert(ctx, &domain.Profile{
		UID:      input.UID,
		Email:    input.Email,
		Name:     input.Name,
		PhotoURL: input.PhotoURL,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to upsert profile",
			slog.String("uid", input.UID),
			slog.String("error", err.Error()))
		return &domain.Profile{
			UID:      input.UID,
			Email:    input.Email,
			Name:     input.Name,
			PhotoURL: input.PhotoURL,
		}, nil
	}

	return stored, nil
}

// GetProfile retrieves a profile by uid.
func (s *ProfileService) GetProfile(ctx context.Context, uid string) (*domain.Profile, error) {
	if uid == "" {
		return nil, apperrors.InvalidInput("uid is required")
	}
	return s.repo.GetByUID(ctx, uid)
}

// SetCoffeeMaker grants or revokes the staff flag. Staff only.
func (s *ProfileService) SetCoffeeMaker(ctx context.Context, uid string, coffeeMaker bool) (*domain.Profile, error) {
	if uid == "" {
		return nil, apperrors.InvalidInput("uid is required")
	}

	if err := s.repo.SetCoffeeMaker(ctx, uid, coffeeMaker); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "coffee maker flag updated",
		slog.String("uid", uid),
		slog.Bool("coffee_maker", coffeeMaker))

	return s.repo.GetByUID(ctx, uid)
}
