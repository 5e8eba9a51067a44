package models

import "time"

// Role names accepted by the role mutation operation. They double as the
// JSON field names the storefront reads.
const (
	RoleAdmin  = "isAdmin"
	RoleDealer = "isDealer"
)

// ValidRole reports whether name is one of the mutable role flags.
func ValidRole(name string) bool {
	return name == RoleAdmin || name == RoleDealer
}

// AuthorizationProfile is this service's own per-user record: role flags
// plus identity fields denormalized at provisioning time. Keyed by the
// Identity Record id, never generated independently.
type AuthorizationProfile struct {
	ID          string    `json:"id"`
	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"displayName,omitempty"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	PhoneNumber string    `json:"phoneNumber,omitempty"`
	IsAdmin     bool      `json:"isAdmin"`
	IsDealer    bool      `json:"isDealer"`
	Disabled    bool      `json:"disabled"`
	JoinedAt    time.Time `json:"joinedAt"`
}
