package postgres

import (
	"context"
	"time"

	"authcore/internal/repository"

	"github.com/jmoiron/sqlx"
)

type loginHistoryRepository struct {
	repository.BaseRepository
}

// NewLoginHistoryRepository creates a new PostgreSQL login history repository
func NewLoginHistoryRepository(db *sqlx.DB) repository.LoginHistoryRepository {
	return &loginHistoryRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

func (r *loginHistoryRepository) MarkLogin(ctx context.Context, accountID int64, at time.Time) error {
	query := `
		INSERT INTO account_login_details (account_id, last_login, wrong_login_count, last_wrong_login_attempt)
		VALUES ($1, $2, 0, NULL)
		ON CONFLICT (account_id) DO UPDATE
		SET last_login = EXCLUDED.last_login,
			wrong_login_count = 0,
			last_wrong_login_attempt = NULL`

	_, err := r.Ext(ctx).ExecContext(ctx, query, accountID, at)
	return err
}

func (r *loginHistoryRepository) MarkWrongAttempt(ctx context.Context, accountID int64, count int, at time.Time) error {
	query := `
		INSERT INTO account_login_details (account_id, last_login, wrong_login_count, last_wrong_login_attempt)
		VALUES ($1, NULL, $2, $3)
		ON CONFLICT (account_id) DO UPDATE
		SET wrong_login_count = EXCLUDED.wrong_login_count,
			last_wrong_login_attempt = EXCLUDED.last_wrong_login_attempt`

	_, err := r.Ext(ctx).ExecContext(ctx, query, accountID, count, at)
	return err
}

func (r *loginHistoryRepository) ResetExpiredBlocks(ctx context.Context, maxCount int, before time.Time) (int64, error) {
	query := `
		UPDATE account_login_details
		SET wrong_login_count = 0
		WHERE wrong_login_count >= $1
		AND last_wrong_login_attempt <= $2`

	result, err := r.Ext(ctx).ExecContext(ctx, query, maxCount, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
