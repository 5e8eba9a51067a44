package models

import "time"

// IdentityRecord is the account record owned by the external identity
// provider. This service reads it and flips its disabled flag; everything
// else belongs to the provider.
type IdentityRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"displayName,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"createdAt"`
	LastSignInAt time.Time `json:"lastSignInAt,omitempty"`
}
