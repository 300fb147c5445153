package repository

import (
	"context"
	"time"

	"authcore/internal/models"
)

// AccountRepository defines the credential store operations on accounts
type AccountRepository interface {
	// FindByEmail returns the account with its profile, roles and login history
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
	// ExistsByEmail reports whether another account than excludeID holds email
	ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, draft *models.AccountDraft, createdBy *int64) (int64, error)
	CreateDetails(ctx context.Context, accountID int64, draft *models.AccountDraft) error
	AttachRole(ctx context.Context, accountID int64, role models.RoleName) error
	// Update and UpdateDetails return the number of rows affected
	Update(ctx context.Context, draft *models.AccountDraft, updatedBy *int64) (int64, error)
	UpdateDetails(ctx context.Context, draft *models.AccountDraft) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// LoginHistoryRepository defines the login bookkeeping operations
type LoginHistoryRepository interface {
	// MarkLogin records a successful login and clears the wrong-attempt counter
	MarkLogin(ctx context.Context, accountID int64, at time.Time) error
	// MarkWrongAttempt stores the wrong-attempt count and its time
	MarkWrongAttempt(ctx context.Context, accountID int64, count int, at time.Time) error
	// ResetExpiredBlocks zeroes counters at or above maxCount whose last wrong
	// attempt is not after before
	ResetExpiredBlocks(ctx context.Context, maxCount int, before time.Time) (int64, error)
}

// ThirdPartyLoginRepository stores provider associations
type ThirdPartyLoginRepository interface {
	Upsert(ctx context.Context, login *models.ThirdPartyLogin) error
}
