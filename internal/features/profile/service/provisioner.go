package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	identitymodels "staticshop-backend/internal/features/identity/models"
	"staticshop-backend/internal/features/profile/models"
	"staticshop-backend/internal/features/profile/repository"
)

// ErrNilRecord means the triggering event carried no identity record.
var ErrNilRecord = errors.New("identity record missing from event")

// Provisioner materializes the default Authorization Profile for a new
// identity. Best-effort: callers log the returned error and move on; the
// event source never retries, and a missing profile is repaired lazily on
// the first profile read.
type Provisioner struct {
	profiles repository.ProfileRepository
	logger   zerolog.Logger
}

func NewProvisioner(profiles repository.ProfileRepository, logger zerolog.Logger) *Provisioner {
	return &Provisioner{
		profiles: profiles,
		logger:   logger.With().Str("module", "provisioner").Logger(),
	}
}

// Provision writes the default profile for the record, overwriting any
// existing row so a repeated event replaces rather than duplicates.
func (p *Provisioner) Provision(ctx context.Context, rec *identitymodels.IdentityRecord) (*models.AuthorizationProfile, error) {
	if rec == nil || rec.ID == "" {
		p.logger.Error().Msg("provisioning event without identity record")
		return nil, ErrNilRecord
	}

	joinedAt := rec.CreatedAt
	if joinedAt.IsZero() {
		joinedAt = time.Now().UTC()
	}

	profile := &models.AuthorizationProfile{
		ID:          rec.ID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		AvatarURL:   rec.AvatarURL,
		PhoneNumber: rec.PhoneNumber,
		IsAdmin:     false,
		IsDealer:    false,
		Disabled:    rec.Disabled,
		JoinedAt:    joinedAt,
	}

	if err := p.profiles.Save(ctx, profile); err != nil {
		p.logger.Error().Err(err).Str("user_id", rec.ID).Msg("failed to provision profile")
		return nil, err
	}

	p.logger.Info().Str("user_id", rec.ID).Msg("profile provisioned")
	return profile, nil
}
