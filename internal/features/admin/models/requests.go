package models

import (
	"fmt"
	"time"

	apperrors "staticshop-backend/internal/common/errors"
	profilemodels "staticshop-backend/internal/features/profile/models"
)

// ManagedUser is one row of the admin user listing: the Identity Record
// merged with the role flags from the Authorization Profile.
type ManagedUser struct {
	ID             string     `json:"id"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"displayName,omitempty"`
	AvatarURL      string     `json:"avatarUrl,omitempty"`
	Disabled       bool       `json:"disabled"`
	CreatedAt      time.Time  `json:"createdAt"`
	LastSignInTime *time.Time `json:"lastSignInTime,omitempty"`
	IsAdmin        bool       `json:"isAdmin"`
	IsDealer       bool       `json:"isDealer"`
	Phone          *string    `json:"phone"`
}

// MutationResult is the success envelope of the two mutation operations.
type MutationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SetRoleRequest is the validated form of a role mutation call.
type SetRoleRequest struct {
	TargetID string
	RoleName string
	Value    bool
}

// SetDisabledRequest is the validated form of a status mutation call.
type SetDisabledRequest struct {
	TargetID string
	Disabled bool
}

// ParseSetRoleRequest validates the raw callable payload. Field presence
// and types are checked explicitly: a missing boolean and a boolean of the
// wrong type are both INVALID_ARGUMENT, and no store is touched before
// this returns.
func ParseSetRoleRequest(payload map[string]interface{}) (*SetRoleRequest, error) {
	targetID, err := stringField(payload, "targetId")
	if err != nil {
		return nil, err
	}

	roleName, err := stringField(payload, "roleName")
	if err != nil {
		return nil, err
	}
	if !profilemodels.ValidRole(roleName) {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("roleName must be %q or %q", profilemodels.RoleAdmin, profilemodels.RoleDealer))
	}

	value, err := boolField(payload, "value")
	if err != nil {
		return nil, err
	}

	return &SetRoleRequest{TargetID: targetID, RoleName: roleName, Value: value}, nil
}

// ParseSetDisabledRequest validates the raw payload of a status mutation.
func ParseSetDisabledRequest(payload map[string]interface{}) (*SetDisabledRequest, error) {
	targetID, err := stringField(payload, "targetId")
	if err != nil {
		return nil, err
	}

	disabled, err := boolField(payload, "disabled")
	if err != nil {
		return nil, err
	}

	return &SetDisabledRequest{TargetID: targetID, Disabled: disabled}, nil
}

func stringField(payload map[string]interface{}, field string) (string, error) {
	raw, ok := payload[field]
	if !ok {
		return "", apperrors.InvalidArgument(fmt.Sprintf("%s is required", field))
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", apperrors.InvalidArgument(fmt.Sprintf("%s must be a non-empty string", field))
	}
	return s, nil
}

func boolField(payload map[string]interface{}, field string) (bool, error) {
	raw, ok := payload[field]
	if !ok {
		return false, apperrors.InvalidArgument(fmt.Sprintf("%s is required", field))
	}
	b, ok := raw.(bool)
	if !ok {
		return false, apperrors.InvalidArgument(fmt.Sprintf("%s must be a boolean", field))
	}
	return b, nil
}
