package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "staticshop-backend/internal/common/errors"
	identitymodels "staticshop-backend/internal/features/identity/models"
	profilemodels "staticshop-backend/internal/features/profile/models"
	profilerepo "staticshop-backend/internal/features/profile/repository"
)

// --- fakes ---

type fakeProvider struct {
	mu          sync.Mutex
	records     []identitymodels.IdentityRecord
	listCalls   int
	listErr     error
	disabled    map[string]bool
	disabledErr error
}

func (f *fakeProvider) GetUser(ctx context.Context, id string) (*identitymodels.IdentityRecord, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			r := rec
			return &r, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeProvider) ListUsers(ctx context.Context, pageSize int) ([]identitymodels.IdentityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.records, nil
}

func (f *fakeProvider) SetDisabled(ctx context.Context, id string, disabled bool) error {
	if f.disabledErr != nil {
		return f.disabledErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabled == nil {
		f.disabled = make(map[string]bool)
	}
	f.disabled[id] = disabled
	return nil
}

type fakeProfileRepo struct {
	mu          sync.Mutex
	profiles    map[string]*profilemodels.AuthorizationProfile
	getErr      map[string]error
	setRoleErr  error
	disabledErr error
	setRoleN    int
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*profilemodels.AuthorizationProfile)}
}

func (f *fakeProfileRepo) Save(ctx context.Context, p *profilemodels.AuthorizationProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	f.profiles[p.ID] = &cp
	return nil
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*profilemodels.AuthorizationProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.getErr[id]; ok {
		return nil, err
	}
	p, ok := f.profiles[id]
	if !ok {
		return nil, profilerepo.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProfileRepo) SetRole(ctx context.Context, id, role string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setRoleN++
	if f.setRoleErr != nil {
		return f.setRoleErr
	}
	p, ok := f.profiles[id]
	if !ok {
		p = &profilemodels.AuthorizationProfile{ID: id}
		f.profiles[id] = p
	}
	switch role {
	case profilemodels.RoleAdmin:
		p.IsAdmin = value
	case profilemodels.RoleDealer:
		p.IsDealer = value
	}
	return nil
}

func (f *fakeProfileRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.disabledErr != nil {
		return f.disabledErr
	}
	p, ok := f.profiles[id]
	if !ok {
		p = &profilemodels.AuthorizationProfile{ID: id}
		f.profiles[id] = p
	}
	p.Disabled = disabled
	return nil
}

type fakeMirror struct {
	mu        sync.Mutex
	roleN     int
	disabledN int
	err       error
}

func (f *fakeMirror) SetRole(ctx context.Context, id, role string, value bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.roleN++
	return f.err
}

func (f *fakeMirror) SetDisabled(ctx context.Context, id string, disabled bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.disabledN++
	return f.err
}

// --- helpers ---

func newService(t *testing.T, provider *fakeProvider, repo *fakeProfileRepo, cfg Config) AdminService {
	t.Helper()
	return NewAdminService(provider, repo, &fakeMirror{}, cfg, zerolog.Nop())
}

func addAdmin(repo *fakeProfileRepo, id string) {
	repo.profiles[id] = &profilemodels.AuthorizationProfile{ID: id, IsAdmin: true}
}

func errCode(t *testing.T, err error) apperrors.ErrorCode {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Code
}

// --- tests ---

func TestOperationsRequireAuthentication(t *testing.T) {
	svc := newService(t, &fakeProvider{}, newFakeProfileRepo(), Config{})
	ctx := context.Background()

	_, err := svc.ListUsers(ctx, "")
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, errCode(t, err))

	_, err = svc.SetRole(ctx, "", map[string]interface{}{"targetId": "u2", "roleName": "isAdmin", "value": true})
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, errCode(t, err))

	_, err = svc.SetDisabled(ctx, "", map[string]interface{}{"targetId": "u2", "disabled": true})
	assert.Equal(t, apperrors.ErrCodeUnauthenticated, errCode(t, err))
}

func TestCallerWithoutProfileIsDenied(t *testing.T) {
	provider := &fakeProvider{}
	svc := newService(t, provider, newFakeProfileRepo(), Config{})

	_, err := svc.ListUsers(context.Background(), "ghost")
	assert.Equal(t, apperrors.ErrCodePermissionDenied, errCode(t, err))
	assert.Equal(t, 0, provider.listCalls, "no provider read before authorization")
}

func TestNonAdminCallerIsDeniedRegardlessOfInput(t *testing.T) {
	provider := &fakeProvider{}
	repo := newFakeProfileRepo()
	repo.profiles["u1"] = &profilemodels.AuthorizationProfile{ID: "u1", IsAdmin: false}
	svc := newService(t, provider, repo, Config{})

	// Input is garbage; the caller check still comes first.
	_, err := svc.SetRole(context.Background(), "u1", map[string]interface{}{"roleName": "owner"})
	assert.Equal(t, apperrors.ErrCodePermissionDenied, errCode(t, err))
	assert.Equal(t, 0, repo.setRoleN)

	_, err = svc.ListUsers(context.Background(), "u1")
	assert.Equal(t, apperrors.ErrCodePermissionDenied, errCode(t, err))
	assert.Equal(t, 0, provider.listCalls)
}

func TestSetRoleRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"unknown role", map[string]interface{}{"targetId": "u2", "roleName": "owner", "value": true}},
		{"non-boolean value", map[string]interface{}{"targetId": "u2", "roleName": "isAdmin", "value": "yes"}},
		{"missing value", map[string]interface{}{"targetId": "u2", "roleName": "isAdmin"}},
		{"empty target", map[string]interface{}{"targetId": "", "roleName": "isAdmin", "value": true}},
		{"non-string target", map[string]interface{}{"targetId": 7, "roleName": "isAdmin", "value": true}},
		{"missing target", map[string]interface{}{"roleName": "isAdmin", "value": true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeProfileRepo()
			addAdmin(repo, "admin")
			svc := newService(t, &fakeProvider{}, repo, Config{})

			_, err := svc.SetRole(context.Background(), "admin", tc.payload)
			assert.Equal(t, apperrors.ErrCodeInvalidArgument, errCode(t, err))
			assert.Equal(t, 0, repo.setRoleN, "no store write on invalid input")
		})
	}
}

func TestSetRoleUpdatesExistingTarget(t *testing.T) {
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	repo.profiles["u2"] = &profilemodels.AuthorizationProfile{
		ID: "u2", Email: "u2@example.com", IsAdmin: false, IsDealer: false, Disabled: false,
	}
	svc := newService(t, &fakeProvider{}, repo, Config{})

	result, err := svc.SetRole(context.Background(), "admin",
		map[string]interface{}{"targetId": "u2", "roleName": "isDealer", "value": true})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "User u2 isDealer status updated to true.", result.Message)

	target := repo.profiles["u2"]
	assert.True(t, target.IsDealer)
	assert.False(t, target.IsAdmin)
	assert.Equal(t, "u2@example.com", target.Email, "other fields untouched")
}

func TestSetRoleCreatesMissingTargetProfile(t *testing.T) {
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	svc := newService(t, &fakeProvider{}, repo, Config{})

	_, err := svc.SetRole(context.Background(), "admin",
		map[string]interface{}{"targetId": "u3", "roleName": "isAdmin", "value": true})
	require.NoError(t, err)

	target, ok := repo.profiles["u3"]
	require.True(t, ok, "profile created on the defensive path")
	assert.True(t, target.IsAdmin)
}

func TestSetRoleIsIdempotent(t *testing.T) {
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	svc := newService(t, &fakeProvider{}, repo, Config{})
	payload := map[string]interface{}{"targetId": "u2", "roleName": "isDealer", "value": true}

	_, err := svc.SetRole(context.Background(), "admin", payload)
	require.NoError(t, err)
	first := *repo.profiles["u2"]

	_, err = svc.SetRole(context.Background(), "admin", payload)
	require.NoError(t, err)

	assert.Equal(t, first, *repo.profiles["u2"])
}

func TestSetRoleStoreFailureIsInternal(t *testing.T) {
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	repo.setRoleErr = errors.New("connection reset")
	svc := newService(t, &fakeProvider{}, repo, Config{})

	_, err := svc.SetRole(context.Background(), "admin",
		map[string]interface{}{"targetId": "u2", "roleName": "isAdmin", "value": true})
	assert.Equal(t, apperrors.ErrCodeInternal, errCode(t, err))
}

func TestSelfDemotionGuard(t *testing.T) {
	t.Run("enabled rejects revoking own admin flag", func(t *testing.T) {
		repo := newFakeProfileRepo()
		addAdmin(repo, "admin")
		svc := newService(t, &fakeProvider{}, repo, Config{ProtectSelfDemotion: true})

		_, err := svc.SetRole(context.Background(), "admin",
			map[string]interface{}{"targetId": "admin", "roleName": "isAdmin", "value": false})
		assert.Equal(t, apperrors.ErrCodePermissionDenied, errCode(t, err))
		assert.True(t, repo.profiles["admin"].IsAdmin)
	})

	t.Run("enabled still allows demoting others and self dealer changes", func(t *testing.T) {
		repo := newFakeProfileRepo()
		addAdmin(repo, "admin")
		addAdmin(repo, "other")
		svc := newService(t, &fakeProvider{}, repo, Config{ProtectSelfDemotion: true})

		_, err := svc.SetRole(context.Background(), "admin",
			map[string]interface{}{"targetId": "other", "roleName": "isAdmin", "value": false})
		require.NoError(t, err)
		assert.False(t, repo.profiles["other"].IsAdmin)

		_, err = svc.SetRole(context.Background(), "admin",
			map[string]interface{}{"targetId": "admin", "roleName": "isDealer", "value": true})
		require.NoError(t, err)
	})

	t.Run("disabled allows self demotion", func(t *testing.T) {
		repo := newFakeProfileRepo()
		addAdmin(repo, "admin")
		svc := newService(t, &fakeProvider{}, repo, Config{ProtectSelfDemotion: false})

		_, err := svc.SetRole(context.Background(), "admin",
			map[string]interface{}{"targetId": "admin", "roleName": "isAdmin", "value": false})
		require.NoError(t, err)
		assert.False(t, repo.profiles["admin"].IsAdmin)
	})
}

func TestSetDisabledUpdatesBothStores(t *testing.T) {
	provider := &fakeProvider{}
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	repo.profiles["u4"] = &profilemodels.AuthorizationProfile{ID: "u4"}
	mirror := &fakeMirror{}
	svc := NewAdminService(provider, repo, mirror, Config{}, zerolog.Nop())

	result, err := svc.SetDisabled(context.Background(), "admin",
		map[string]interface{}{"targetId": "u4", "disabled": true})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, "User u4 disabled status updated to true.", result.Message)
	assert.True(t, provider.disabled["u4"])
	assert.True(t, repo.profiles["u4"].Disabled)
	assert.Equal(t, 1, mirror.disabledN)
}

func TestSetDisabledProviderFailureStopsEverything(t *testing.T) {
	provider := &fakeProvider{disabledErr: errors.New("provider down")}
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	repo.profiles["u4"] = &profilemodels.AuthorizationProfile{ID: "u4"}
	svc := newService(t, provider, repo, Config{})

	_, err := svc.SetDisabled(context.Background(), "admin",
		map[string]interface{}{"targetId": "u4", "disabled": true})
	assert.Equal(t, apperrors.ErrCodeInternal, errCode(t, err))
	assert.False(t, repo.profiles["u4"].Disabled, "profile write never attempted")
}

func TestSetDisabledProfileFailureLeavesStoresDrifted(t *testing.T) {
	// The provider write succeeds, the profile write fails: the stores
	// drift and the operation reports INTERNAL. There is no rollback.
	provider := &fakeProvider{}
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	repo.profiles["u4"] = &profilemodels.AuthorizationProfile{ID: "u4", Disabled: false}
	repo.disabledErr = errors.New("write timeout")
	svc := newService(t, provider, repo, Config{})

	_, err := svc.SetDisabled(context.Background(), "admin",
		map[string]interface{}{"targetId": "u4", "disabled": true})

	assert.Equal(t, apperrors.ErrCodeInternal, errCode(t, err))
	assert.True(t, provider.disabled["u4"], "identity provider write already landed")
	assert.False(t, repo.profiles["u4"].Disabled, "profile copy unchanged")
}

func TestSetDisabledRejectsInvalidInput(t *testing.T) {
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	provider := &fakeProvider{}
	svc := newService(t, provider, repo, Config{})

	for name, payload := range map[string]map[string]interface{}{
		"missing disabled": {"targetId": "u4"},
		"string disabled":  {"targetId": "u4", "disabled": "true"},
		"empty target":     {"targetId": "", "disabled": true},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.SetDisabled(context.Background(), "admin", payload)
			assert.Equal(t, apperrors.ErrCodeInvalidArgument, errCode(t, err))
		})
	}
	assert.Empty(t, provider.disabled)
}

func TestListUsersMergesProfiles(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	lastSignIn := now.Add(-time.Hour)
	provider := &fakeProvider{records: []identitymodels.IdentityRecord{
		{ID: "u1", Email: "u1@example.com", CreatedAt: now, LastSignInAt: lastSignIn},
		{ID: "u2", Email: "u2@example.com", Disabled: true, CreatedAt: now},
		{ID: "u3", Email: "u3@example.com", CreatedAt: now},
	}}
	repo := newFakeProfileRepo()
	addAdmin(repo, "u1")
	repo.profiles["u2"] = &profilemodels.AuthorizationProfile{ID: "u2", IsDealer: true, PhoneNumber: "+371000"}
	// u3 has no profile; a per-record read error on it must not abort the listing.
	repo.getErr = map[string]error{"u3": errors.New("read timeout")}

	svc := newService(t, provider, repo, Config{})
	users, err := svc.ListUsers(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, users, 3)

	assert.Equal(t, "u1", users[0].ID, "provider order preserved")
	assert.True(t, users[0].IsAdmin)
	require.NotNil(t, users[0].LastSignInTime)
	assert.Equal(t, lastSignIn, *users[0].LastSignInTime)

	assert.True(t, users[1].IsDealer)
	assert.True(t, users[1].Disabled)
	require.NotNil(t, users[1].Phone)
	assert.Equal(t, "+371000", *users[1].Phone)

	assert.False(t, users[2].IsAdmin, "defaults on per-record failure")
	assert.False(t, users[2].IsDealer)
	assert.Nil(t, users[2].Phone)
}

func TestListUsersProviderFailureIsInternal(t *testing.T) {
	provider := &fakeProvider{listErr: errors.New("quota exceeded")}
	repo := newFakeProfileRepo()
	addAdmin(repo, "admin")
	svc := newService(t, provider, repo, Config{})

	_, err := svc.ListUsers(context.Background(), "admin")
	assert.Equal(t, apperrors.ErrCodeInternal, errCode(t, err))
}
