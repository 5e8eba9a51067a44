package provider

import (
	"context"
	"errors"

	"staticshop-backend/internal/features/identity/models"
)

// ErrNotFound is returned when the provider has no record for the id.
var ErrNotFound = errors.New("identity not found")

// Provider is the port to the external identity platform. The platform is
// authoritative for every field of the Identity Record; this service only
// ever writes the disabled flag.
type Provider interface {
	GetUser(ctx context.Context, id string) (*models.IdentityRecord, error)
	// ListUsers returns a single page of records, at most pageSize entries,
	// in the provider's own order. The provider caps pages at 1000.
	ListUsers(ctx context.Context, pageSize int) ([]models.IdentityRecord, error)
	SetDisabled(ctx context.Context, id string, disabled bool) error
}
