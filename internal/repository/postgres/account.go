package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"authcore/internal/models"
	"authcore/internal/repository"

	"github.com/jmoiron/sqlx"
)

type accountRepository struct {
	repository.BaseRepository
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *sqlx.DB) repository.AccountRepository {
	return &accountRepository{
		BaseRepository: repository.NewBaseRepository(db),
	}
}

const selectAccount = `
	SELECT
		a.id, a.email, a.password, a.status, a.email_verified,
		a.created_by, a.updated_by, a.created_on, a.updated_on,
		d.first_name, d.last_name, d.dial_code, d.phone, d.date_of_birth, d.profile_pic,
		l.account_id AS login_account_id, l.last_login, l.wrong_login_count,
		l.last_wrong_login_attempt
	FROM accounts a
	LEFT JOIN account_details d ON d.account_id = a.id
	LEFT JOIN account_login_details l ON l.account_id = a.id`

const selectRoles = `
	SELECT r.id, r.name
	FROM roles r
	JOIN account_roles ar ON ar.role_id = r.id
	WHERE ar.account_id = $1
	ORDER BY r.id`

// accountRow is the flattened result of selectAccount
type accountRow struct {
	ID                    int64                `db:"id"`
	Email                 string               `db:"email"`
	Password              *string              `db:"password"`
	Status                models.AccountStatus `db:"status"`
	EmailVerified         bool                 `db:"email_verified"`
	CreatedBy             *int64               `db:"created_by"`
	UpdatedBy             *int64               `db:"updated_by"`
	CreatedOn             time.Time            `db:"created_on"`
	UpdatedOn             *time.Time           `db:"updated_on"`
	FirstName             *string              `db:"first_name"`
	LastName              *string              `db:"last_name"`
	DialCode              *string              `db:"dial_code"`
	Phone                 *string              `db:"phone"`
	DateOfBirth           *time.Time           `db:"date_of_birth"`
	ProfilePic            *string              `db:"profile_pic"`
	LoginAccountID        *int64               `db:"login_account_id"`
	LastLogin             *time.Time           `db:"last_login"`
	WrongLoginCount       *int                 `db:"wrong_login_count"`
	LastWrongLoginAttempt *time.Time           `db:"last_wrong_login_attempt"`
}

func (row *accountRow) toModel() *models.Account {
	a := &models.Account{
		ID:            row.ID,
		Email:         row.Email,
		Password:      row.Password,
		Status:        row.Status,
		EmailVerified: row.EmailVerified,
		CreatedBy:     row.CreatedBy,
		UpdatedBy:     row.UpdatedBy,
		CreatedOn:     row.CreatedOn,
		UpdatedOn:     row.UpdatedOn,
		Details: models.AccountDetails{
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			DialCode:    row.DialCode,
			Phone:       row.Phone,
			DateOfBirth: row.DateOfBirth,
			ProfilePic:  row.ProfilePic,
		},
	}

	if row.LoginAccountID != nil {
		a.LoginHistory = &models.LoginHistory{
			AccountID:             *row.LoginAccountID,
			LastLogin:             row.LastLogin,
			LastWrongLoginAttempt: row.LastWrongLoginAttempt,
		}
		if row.WrongLoginCount != nil {
			a.LoginHistory.WrongLoginCount = *row.WrongLoginCount
		}
	}

	return a
}

func (r *accountRepository) find(ctx context.Context, where string, arg any) (*models.Account, error) {
	db := r.Ext(ctx)

	var row accountRow
	if err := sqlx.GetContext(ctx, db, &row, selectAccount+" WHERE "+where, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("select account: %w", err)
	}

	account := row.toModel()
	if err := sqlx.SelectContext(ctx, db, &account.Roles, selectRoles, account.ID); err != nil {
		return nil, fmt.Errorf("select roles: %w", err)
	}

	return account, nil
}

func (r *accountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(ctx, "a.email = $1", email)
}

func (r *accountRepository) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.find(ctx, "a.id = $1", id)
}

func (r *accountRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var exists bool
	err := r.Ext(ctx).QueryRowxContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1 AND id <> $2)",
		email, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *accountRepository) Create(ctx context.Context, draft *models.AccountDraft, createdBy *int64) (int64, error) {
	query := `
		INSERT INTO accounts (email, password, status, email_verified, created_by, created_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	status := draft.Status
	if status == "" {
		status = models.StatusActive
	}

	var id int64
	err := r.Ext(ctx).QueryRowxContext(ctx, query,
		draft.Email,
		draft.Password,
		status,
		draft.EmailVerified,
		createdBy,
		time.Now(),
	).Scan(&id)
	if err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

func (r *accountRepository) CreateDetails(ctx context.Context, accountID int64, draft *models.AccountDraft) error {
	query := `
		INSERT INTO account_details (
			account_id, first_name, last_name, dial_code, phone, date_of_birth, profile_pic
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.Ext(ctx).ExecContext(ctx, query,
		accountID,
		draft.FirstName,
		draft.LastName,
		draft.DialCode,
		draft.Phone,
		draft.DateOfBirth,
		draft.ProfilePic,
	)
	return mapError(err)
}

func (r *accountRepository) AttachRole(ctx context.Context, accountID int64, role models.RoleName) error {
	query := `
		INSERT INTO account_roles (account_id, role_id)
		SELECT $1, id FROM roles WHERE name = $2
		ON CONFLICT DO NOTHING`

	result, err := r.Ext(ctx).ExecContext(ctx, query, accountID, role)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", repository.ErrRoleNotFound, role)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, draft *models.AccountDraft, updatedBy *int64) (int64, error) {
	query := `
		UPDATE accounts
		SET email = COALESCE(NULLIF($1, ''), email),
			password = COALESCE($2, password),
			status = COALESCE(NULLIF($3, ''), status),
			updated_by = $4,
			updated_on = $5
		WHERE id = $6`

	result, err := r.Ext(ctx).ExecContext(ctx, query,
		draft.Email,
		draft.Password,
		string(draft.Status),
		updatedBy,
		time.Now(),
		draft.ID,
	)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

func (r *accountRepository) UpdateDetails(ctx context.Context, draft *models.AccountDraft) (int64, error) {
	query := `
		UPDATE account_details
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			dial_code = COALESCE($3, dial_code),
			phone = COALESCE($4, phone),
			date_of_birth = COALESCE($5, date_of_birth),
			profile_pic = COALESCE($6, profile_pic)
		WHERE account_id = $7`

	result, err := r.Ext(ctx).ExecContext(ctx, query,
		draft.FirstName,
		draft.LastName,
		draft.DialCode,
		draft.Phone,
		draft.DateOfBirth,
		draft.ProfilePic,
		draft.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *accountRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result, err := r.Ext(ctx).ExecContext(ctx, "DELETE FROM accounts WHERE id = $1", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
