package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	apperrors "staticshop-backend/internal/common/errors"
	"staticshop-backend/internal/features/admin/models"
	identitymodels "staticshop-backend/internal/features/identity/models"
	"staticshop-backend/internal/features/identity/provider"
	profilemodels "staticshop-backend/internal/features/profile/models"
	profilerepo "staticshop-backend/internal/features/profile/repository"
)

// providerPageSize is the identity provider's own page-size ceiling; the
// listing requests one full page and does not paginate further.
const providerPageSize = 1000

type AdminService interface {
	// ListUsers merges every Identity Record with its Authorization
	// Profile. Admin-only.
	ListUsers(ctx context.Context, callerID string) ([]models.ManagedUser, error)
	// SetRole flips one role flag on the target's profile. Admin-only.
	SetRole(ctx context.Context, callerID string, payload map[string]interface{}) (*models.MutationResult, error)
	// SetDisabled flips the disabled flag on the Identity Record first,
	// then on the profile. Admin-only. The two writes are not
	// transactional; if the second fails the stores drift until a later
	// mutation corrects them.
	SetDisabled(ctx context.Context, callerID string, payload map[string]interface{}) (*models.MutationResult, error)
}

// Config carries the policy knobs of the admin operations.
type Config struct {
	// ProtectSelfDemotion rejects an admin clearing their own isAdmin flag,
	// closing the lockout window the storefront UI only papers over.
	ProtectSelfDemotion bool
	// PageSize for the identity listing; defaults to the provider ceiling.
	PageSize int
}

type adminService struct {
	identity provider.Provider
	profiles profilerepo.ProfileRepository
	mirror   profilerepo.StatusMirror
	cfg      Config
	logger   zerolog.Logger
}

func NewAdminService(identity provider.Provider, profiles profilerepo.ProfileRepository, mirror profilerepo.StatusMirror, cfg Config, logger zerolog.Logger) AdminService {
	return &adminService{
		identity: identity,
		profiles: profiles,
		mirror:   mirror,
		cfg:      cfg,
		logger:   logger.With().Str("module", "admin_service").Logger(),
	}
}

// requireAdmin authenticates and authorizes the caller. The caller's own
// profile is re-read on every call: roles are never cached and never come
// from the token.
func (s *adminService) requireAdmin(ctx context.Context, callerID string) error {
	if callerID == "" {
		return apperrors.Unauthenticated("authentication required")
	}

	profile, err := s.profiles.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, profilerepo.ErrNotFound) {
			return apperrors.PermissionDenied("profile not found")
		}
		return apperrors.Internal("failed to load caller profile", err)
	}

	if !profile.IsAdmin {
		return apperrors.PermissionDenied("not an admin")
	}

	return nil
}

func (s *adminService) ListUsers(ctx context.Context, callerID string) ([]models.ManagedUser, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	pageSize := s.cfg.PageSize
	if pageSize <= 0 || pageSize > providerPageSize {
		pageSize = providerPageSize
	}

	records, err := s.identity.ListUsers(ctx, pageSize)
	if err != nil {
		return nil, apperrors.Internal("failed to list identities", err)
	}

	// Per-record lookups run concurrently; each slot is written by exactly
	// one goroutine. A missing profile or a failed read falls back to
	// default roles and never aborts the listing.
	users := make([]models.ManagedUser, len(records))
	var wg sync.WaitGroup
	for i, rec := range records {
		wg.Add(1)
		go func(i int, rec identitymodels.IdentityRecord) {
			defer wg.Done()
			users[i] = s.mergeUser(ctx, rec)
		}(i, rec)
	}
	wg.Wait()

	return users, nil
}

func (s *adminService) mergeUser(ctx context.Context, rec identitymodels.IdentityRecord) models.ManagedUser {
	user := models.ManagedUser{
		ID:          rec.ID,
		Email:       rec.Email,
		DisplayName: rec.DisplayName,
		AvatarURL:   rec.AvatarURL,
		Disabled:    rec.Disabled,
		CreatedAt:   rec.CreatedAt,
	}
	if !rec.LastSignInAt.IsZero() {
		t := rec.LastSignInAt
		user.LastSignInTime = &t
	}

	profile, err := s.profiles.GetByID(ctx, rec.ID)
	if err != nil {
		if !errors.Is(err, profilerepo.ErrNotFound) {
			s.logger.Warn().Err(err).Str("user_id", rec.ID).Msg("profile read failed, using defaults")
		}
		return user
	}

	user.IsAdmin = profile.IsAdmin
	user.IsDealer = profile.IsDealer
	if profile.PhoneNumber != "" {
		phone := profile.PhoneNumber
		user.Phone = &phone
	}
	return user
}

func (s *adminService) SetRole(ctx context.Context, callerID string, payload map[string]interface{}) (*models.MutationResult, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	req, err := models.ParseSetRoleRequest(payload)
	if err != nil {
		return nil, err
	}

	if s.cfg.ProtectSelfDemotion && req.TargetID == callerID &&
		req.RoleName == profilemodels.RoleAdmin && !req.Value {
		return nil, apperrors.PermissionDenied("cannot revoke own admin role")
	}

	if err := s.profiles.SetRole(ctx, req.TargetID, req.RoleName, req.Value); err != nil {
		return nil, apperrors.Internal("failed to update role", err)
	}

	if err := s.mirror.SetRole(ctx, req.TargetID, req.RoleName, req.Value); err != nil {
		s.logger.Warn().Err(err).Str("user_id", req.TargetID).Msg("status mirror update failed")
	}

	s.logger.Info().
		Str("caller_id", callerID).
		Str("target_id", req.TargetID).
		Str("role", req.RoleName).
		Bool("value", req.Value).
		Msg("role updated")

	return &models.MutationResult{
		Success: true,
		Message: fmt.Sprintf("User %s %s status updated to %t.", req.TargetID, req.RoleName, req.Value),
	}, nil
}

func (s *adminService) SetDisabled(ctx context.Context, callerID string, payload map[string]interface{}) (*models.MutationResult, error) {
	if err := s.requireAdmin(ctx, callerID); err != nil {
		return nil, err
	}

	req, err := models.ParseSetDisabledRequest(payload)
	if err != nil {
		return nil, err
	}

	// Authoritative write first. If it fails nothing else runs.
	if err := s.identity.SetDisabled(ctx, req.TargetID, req.Disabled); err != nil {
		return nil, apperrors.Internal("failed to update identity record", err)
	}

	// Denormalized copy second. A failure here leaves the two stores
	// drifted; there is no compensating write.
	if err := s.profiles.SetDisabled(ctx, req.TargetID, req.Disabled); err != nil {
		return nil, apperrors.Internal("failed to update profile disabled flag", err)
	}

	if err := s.mirror.SetDisabled(ctx, req.TargetID, req.Disabled); err != nil {
		s.logger.Warn().Err(err).Str("user_id", req.TargetID).Msg("status mirror update failed")
	}

	s.logger.Info().
		Str("caller_id", callerID).
		Str("target_id", req.TargetID).
		Bool("disabled", req.Disabled).
		Msg("disabled status updated")

	return &models.MutationResult{
		Success: true,
		Message: fmt.Sprintf("User %s disabled status updated to %t.", req.TargetID, req.Disabled),
	}, nil
}
