package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"staticshop-backend/internal/features/profile/models"
	"staticshop-backend/internal/features/profile/repository"
)

// roleColumns whitelists the mutable role flags. Role names reaching this
// layer are already validated, but SQL identifiers never come from input.
var roleColumns = map[string]string{
	models.RoleAdmin:  "is_admin",
	models.RoleDealer: "is_dealer",
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Save(ctx context.Context, profile *models.AuthorizationProfile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO authorization_profiles
			(id, email, display_name, avatar_url, phone_number, is_admin, is_dealer, disabled, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = EXCLUDED.display_name,
			avatar_url = EXCLUDED.avatar_url,
			phone_number = EXCLUDED.phone_number,
			is_admin = EXCLUDED.is_admin,
			is_dealer = EXCLUDED.is_dealer,
			disabled = EXCLUDED.disabled,
			joined_at = EXCLUDED.joined_at`,
		profile.ID, profile.Email, profile.DisplayName, profile.AvatarURL,
		profile.PhoneNumber, profile.IsAdmin, profile.IsDealer,
		profile.Disabled, profile.JoinedAt,
	)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.AuthorizationProfile, error) {
	var p models.AuthorizationProfile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, avatar_url, phone_number,
		       is_admin, is_dealer, disabled, joined_at
		FROM authorization_profiles
		WHERE id = $1`, id).
		Scan(&p.ID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.PhoneNumber,
			&p.IsAdmin, &p.IsDealer, &p.Disabled, &p.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) SetRole(ctx context.Context, id, role string, value bool) error {
	column, ok := roleColumns[role]
	if !ok {
		return fmt.Errorf("unknown role %q", role)
	}

	query := fmt.Sprintf(`
		INSERT INTO authorization_profiles (id, %s)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET %s = EXCLUDED.%s`,
		column, column, column)

	_, err := r.db.ExecContext(ctx, query, id, value)
	return err
}

func (r *profileRepository) SetDisabled(ctx context.Context, id string, disabled bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO authorization_profiles (id, disabled)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET disabled = EXCLUDED.disabled`,
		id, disabled)
	return err
}
