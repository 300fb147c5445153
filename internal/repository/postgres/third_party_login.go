package postgres

import (
	"context"

	"authcore/internal/models"
	"authcore/internal/repository"

	"github.com/jmoiron/sqlx"
)

type thirdPartyLoginRepository struct {
	repository.BaseRepository
}

// NewThirdPartyLoginRepository creates a new PostgreSQL provider association repository
func NewThirdPartyLoginRepository(db *sqlx.DB) repository.ThirdPartyLoginRepository {
	return &thirdPartyLoginRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

// Upsert stores the association, replacing the social id of an existing
// (account, provider) pair
func (r *thirdPartyLoginRepository) Upsert(ctx context.Context, login *models.ThirdPartyLogin) error {
	query := `
		INSERT INTO account_third_party_logins (account_id, social_id, registered_from)
		VALUES ($1, $2, $3)
		ON CONFLICT (account_id, registered_from) DO UPDATE
		SET social_id = EXCLUDED.social_id
		RETURNING created_on`

	err := r.Ext(ctx).QueryRowxContext(ctx, query,
		login.AccountID,
		login.SocialID,
		login.RegisteredFrom,
	).Scan(&login.CreatedOn)
	return mapError(err)
}
