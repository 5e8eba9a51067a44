package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	apperrors "staticshop-backend/internal/common/errors"
	"staticshop-backend/internal/features/identity/provider"
	"staticshop-backend/internal/features/profile/models"
	"staticshop-backend/internal/features/profile/repository"
)

type ProfileService interface {
	// GetOwnProfile returns the caller's Authorization Profile, creating
	// the default one from the Identity Record when the asynchronous
	// provisioner never ran for this user.
	GetOwnProfile(ctx context.Context, callerID string) (*models.AuthorizationProfile, error)
}

type profileService struct {
	profiles    repository.ProfileRepository
	identity    provider.Provider
	provisioner *Provisioner
	logger      zerolog.Logger
}

func NewProfileService(profiles repository.ProfileRepository, identity provider.Provider, provisioner *Provisioner, logger zerolog.Logger) ProfileService {
	return &profileService{
		profiles:    profiles,
		identity:    identity,
		provisioner: provisioner,
		logger:      logger.With().Str("module", "profile_service").Logger(),
	}
}

func (s *profileService) GetOwnProfile(ctx context.Context, callerID string) (*models.AuthorizationProfile, error) {
	if callerID == "" {
		return nil, apperrors.Unauthenticated("authentication required")
	}

	profile, err := s.profiles.GetByID(ctx, callerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Internal("failed to load profile", err)
	}

	// Lazy repair: the creation event was missed or its write failed.
	s.logger.Warn().Str("user_id", callerID).Msg("profile missing, provisioning lazily")

	rec, err := s.identity.GetUser(ctx, callerID)
	if err != nil {
		if errors.Is(err, provider.ErrNotFound) {
			return nil, apperrors.NotFound("identity not found")
		}
		return nil, apperrors.Internal("failed to load identity record", err)
	}

	profile, err = s.provisioner.Provision(ctx, rec)
	if err != nil {
		return nil, apperrors.Internal("failed to provision profile", err)
	}
	return profile, nil
}
