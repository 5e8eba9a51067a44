package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staticshop-backend/internal/common/errors"
	identitymodels "staticshop-backend/internal/features/identity/models"
	"staticshop-backend/internal/features/identity/provider"
	"staticshop-backend/internal/features/profile/models"
)

type fakeIdentityProvider struct {
	records  map[string]*identitymodels.IdentityRecord
	getCalls int
	getErr   error
}

func (f *fakeIdentityProvider) GetUser(ctx context.Context, id string) (*identitymodels.IdentityRecord, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, provider.ErrNotFound
	}
	return rec, nil
}

func (f *fakeIdentityProvider) ListUsers(ctx context.Context, pageSize int) ([]identitymodels.IdentityRecord, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeIdentityProvider) SetDisabled(ctx context.Context, id string, disabled bool) error {
	return errors.New("not implemented")
}

func newProfileService(repo *fakeProfileRepo, identity *fakeIdentityProvider) ProfileService {
	provisioner := NewProvisioner(repo, zerolog.Nop())
	return NewProfileService(repo, identity, provisioner, zerolog.Nop())
}

func TestGetOwnProfileRequiresCaller(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo(), &fakeIdentityProvider{})

	_, err := svc.GetOwnProfile(context.Background(), "")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, appErr.Code)
}

func TestGetOwnProfileReturnsExisting(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.profiles["u1"] = &models.AuthorizationProfile{ID: "u1", IsDealer: true}
	identity := &fakeIdentityProvider{}
	svc := newProfileService(repo, identity)

	profile, err := svc.GetOwnProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, profile.IsDealer)
	assert.Equal(t, 0, identity.getCalls, "no provider read when the profile exists")
}

func TestGetOwnProfileProvisionsLazily(t *testing.T) {
	repo := newFakeProfileRepo()
	identity := &fakeIdentityProvider{records: map[string]*identitymodels.IdentityRecord{
		"u1": {ID: "u1", Email: "u1@example.com", CreatedAt: time.Now().UTC()},
	}}
	svc := newProfileService(repo, identity)

	profile, err := svc.GetOwnProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1@example.com", profile.Email)
	assert.False(t, profile.IsAdmin)
	require.NotNil(t, repo.profiles["u1"], "repair persisted")
}

func TestGetOwnProfileUnknownIdentity(t *testing.T) {
	svc := newProfileService(newFakeProfileRepo(), &fakeIdentityProvider{})

	_, err := svc.GetOwnProfile(context.Background(), "ghost")
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrCodeNotFound, appErr.Code)
}
