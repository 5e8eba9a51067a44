package repository

import (
	"context"
	"errors"

	"staticshop-backend/internal/features/profile/models"
)

// ErrNotFound is returned when no profile exists for the id. Callers treat
// a missing profile as "no privileges", not as a failure.
var ErrNotFound = errors.New("authorization profile not found")

// ProfileRepository is the port to the Authorization Profile store.
type ProfileRepository interface {
	// Save writes the full profile, replacing any existing row for the id.
	Save(ctx context.Context, profile *models.AuthorizationProfile) error
	GetByID(ctx context.Context, id string) (*models.AuthorizationProfile, error)
	// SetRole updates a single role flag, creating a default profile for
	// the id when none exists yet (the provisioner may not have run).
	SetRole(ctx context.Context, id, role string, value bool) error
	// SetDisabled updates the denormalized disabled flag with the same
	// create-if-missing semantics as SetRole.
	SetDisabled(ctx context.Context, id string, disabled bool) error
}

// StatusMirror pushes role and status flags to the realtime store the
// storefront clients watch. Writes are best-effort.
type StatusMirror interface {
	SetRole(ctx context.Context, id, role string, value bool) error
	SetDisabled(ctx context.Context, id string, disabled bool) error
}
